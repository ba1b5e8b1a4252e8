package handlers

import (
	"net/http"

	"ckdscreen/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref = "invalid body: "
	errNoReport        = "no lab report submitted for this session"
)

// @Summary      Submit lab report
// @Description  Stores the lab values in the caller's session; nothing is persisted.
// @Tags         report
// @Accept       json
// @Produce      json
// @Param        body  body      models.LabReport  true  "Lab values"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/report [put]
// @Security     BearerAuth
func (h *Handler) putReport(c *gin.Context) {
	var report models.LabReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	sessionID := c.GetString(ctxSessionID)
	if err := h.services.SetReport(sessionID, report); err != nil {
		// Session vanished between middleware and here (logout/expiry race).
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session ended or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "report_saved"})
}

// @Summary      Get lab report
// @Tags         report
// @Produce      json
// @Success      200  {object}  models.LabReport
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/report [get]
// @Security     BearerAuth
func (h *Handler) getReport(c *gin.Context) {
	sess, ok := h.services.Get(c.GetString(ctxSessionID))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session ended or expired"})
		return
	}
	if sess.Report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoReport})
		return
	}
	c.JSON(http.StatusOK, sess.Report)
}
