package handlers

import (
	"errors"
	"net/http"

	"ckdscreen/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errArtifactUnavailable = "screening results unavailable; artifact not generated yet"
	errAdviceUnavailable   = "failed to generate health precautions"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Run screening
// @Description  Returns the precomputed diagnosis plus generated precautions for the session's lab report.
// @Tags         screening
// @Produce      json
// @Success      200  {object}  models.ScreeningResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/screening [post]
// @Security     BearerAuth
func (h *Handler) runScreening(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.GetString(ctxSessionID)
	username := c.GetString(ctxUsername)

	sess, ok := h.services.Get(sessionID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session ended or expired"})
		return
	}
	if sess.Report == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoReport})
		return
	}

	result, err := h.services.Screen(ctx, username)
	if err != nil {
		if errors.Is(err, service.ErrArtifactMissing) || errors.Is(err, service.ErrArtifactEmpty) {
			h.logAndJSONError(c, http.StatusServiceUnavailable, errArtifactUnavailable, "screening_artifact_unavailable", err)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "screening failed", "screening_failed", err)
		return
	}

	precautions, err := h.services.Precautions(ctx, *sess.Report)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errAdviceUnavailable, "advice_generation_failed", err, "username", username)
		return
	}
	result.Precautions = precautions

	// Best-effort; the response carries the result either way.
	_ = h.services.SetResult(sessionID, result)

	c.JSON(http.StatusOK, result)
}
