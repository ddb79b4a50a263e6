package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-service/internal/middleware"
	"task-service/internal/task"
)

type Handler struct {
	tasks *task.Repository
}

func NewHandler(tasks *task.Repository) *Handler {
	return &Handler{tasks: tasks}
}

// RegisterRoutes mounts the task endpoints. Every route requires an
// authenticated session.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	api := r.Group("/api/tasks")
	api.Use(requireAuth)

	api.GET("", h.List)
	api.GET("/:id", h.Get)
	api.POST("", h.Create)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
}

// callerID pulls the authenticated user out of the request context.
// The middleware guarantees it is set on these routes.
func callerID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return 0, false
	}
	return id, true
}
