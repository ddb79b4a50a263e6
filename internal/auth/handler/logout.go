package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-service/internal/logger"
	"task-service/internal/middleware"
	"task-service/internal/session"
)

func (h *Handler) Logout(c *gin.Context) {
	token, ok := middleware.TokenFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		logger.Error("logout: revoke failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}

	session.ClearCookie(c.Writer)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
