package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Keys set on the gin context by sessionMiddleware.
const (
	ctxUserID    = "userId"
	ctxSessionID = "sessionId"
	ctxUsername  = "username"
)

// sessionMiddleware validates the bearer token and checks that its session
// is still alive, so logout and expiry actually revoke access.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	claims, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	sess, ok := h.services.Get(claims.SessionID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "session ended or expired",
		})
		return
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxSessionID, claims.SessionID)
	c.Set(ctxUsername, sess.Username)
	c.Next()
}
