package app

import (
	"context"

	"task-service/internal/auth/credentials"
	authhandler "task-service/internal/auth/handler"
	"task-service/internal/config"
	"task-service/internal/middleware"
	"task-service/internal/session"
	"task-service/internal/task"
	taskhandler "task-service/internal/task/handler"
	"task-service/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userRepo := user.NewRepository(infra.DB)
	credentialService := credentials.NewService(userRepo)

	sessionManager := session.NewManager(
		infra.Redis,
		session.NewPostgresStore(infra.DB),
	)

	taskRepo := task.NewRepository(
		infra.Redis,
		task.NewPostgresStore(infra.DB),
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionManager)
	requireAuth := middleware.GinRequireAuth(authMiddleware)

	authHandler := authhandler.NewHandler(
		credentialService,
		sessionManager,
		userRepo,
	)

	taskHandler := taskhandler.NewHandler(taskRepo)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, requireAuth)
	taskHandler.RegisterRoutes(router, requireAuth)

	router.GET("/health", healthHandler(infra))

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
