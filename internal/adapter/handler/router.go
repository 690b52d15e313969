package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashboi005/insight-ai/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	authHandler       *Auth
	transcriptHandler *Transcript
	taskHandler       *Task
	authMW            echo.MiddlewareFunc
	adminMW           echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, authHandler *Auth, transcriptHandler *Transcript, taskHandler *Task, authMW, adminMW echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:               cfg,
		authHandler:       authHandler,
		transcriptHandler: transcriptHandler,
		taskHandler:       taskHandler,
		authMW:            authMW,
		adminMW:           adminMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupTranscriptRoutes(v1)
	rt.setupTaskRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.POST("/register", rt.authHandler.Register)
	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.GET("/me", rt.authHandler.Me, rt.authMW)
	authGroup.PUT("/me", rt.authHandler.UpdateMe, rt.authMW)
	authGroup.POST("/change-password", rt.authHandler.ChangePassword, rt.authMW)
	authGroup.GET("/users", rt.authHandler.Users, rt.authMW, rt.adminMW)
}

// setupTranscriptRoutes configures transcript routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	transcriptGroup := g.Group("/transcripts", rt.authMW)

	transcriptGroup.POST("", rt.transcriptHandler.Create)
	transcriptGroup.POST("/upload", rt.transcriptHandler.Upload)
	transcriptGroup.GET("", rt.transcriptHandler.List)
	transcriptGroup.GET("/:id", rt.transcriptHandler.Get)
	transcriptGroup.PUT("/:id", rt.transcriptHandler.Update)
	transcriptGroup.GET("/:id/tasks", rt.transcriptHandler.Tasks)
	transcriptGroup.POST("/:id/generate-tasks", rt.transcriptHandler.GenerateTasks)
	transcriptGroup.GET("/:id/download", rt.transcriptHandler.Download)
	transcriptGroup.GET("/:id/download-url", rt.transcriptHandler.DownloadURL)
	transcriptGroup.DELETE("/:id", rt.transcriptHandler.Delete)
}

// setupTaskRoutes configures task routes
func (rt *Router) setupTaskRoutes(g *echo.Group) {
	taskGroup := g.Group("/tasks", rt.authMW)

	taskGroup.GET("/analytics", rt.taskHandler.Analytics)
	taskGroup.GET("/dashboard", rt.taskHandler.Dashboard)
	taskGroup.GET("", rt.taskHandler.List)
	taskGroup.GET("/:id", rt.taskHandler.Get)
	taskGroup.PUT("/:id", rt.taskHandler.Update)
	taskGroup.PATCH("/:id/status", rt.taskHandler.UpdateStatus)
	taskGroup.DELETE("/:id", rt.taskHandler.Delete)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
