package handler

import (
	"github.com/gin-gonic/gin"

	"task-service/internal/auth/credentials"
	"task-service/internal/session"
	"task-service/internal/user"
)

type Handler struct {
	credentialService *credentials.Service
	sessions          *session.Manager
	users             *user.Repository
}

func NewHandler(
	credentialService *credentials.Service,
	sessions *session.Manager,
	users *user.Repository,
) *Handler {
	return &Handler{
		credentialService: credentialService,
		sessions:          sessions,
		users:             users,
	}
}

// RegisterRoutes mounts the auth endpoints. requireAuth guards the
// routes that need an established session.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	auth := r.Group("/auth")

	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	authed := auth.Group("")
	authed.Use(requireAuth)
	authed.GET("/me", h.Me)
	authed.POST("/logout", h.Logout)
}
