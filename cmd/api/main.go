package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/ashboi005/insight-ai/pkg/validator"

	"github.com/ashboi005/insight-ai/internal/adapter/handler"
	"github.com/ashboi005/insight-ai/internal/adapter/repository"
	"github.com/ashboi005/insight-ai/internal/infrastructure/cache"
	"github.com/ashboi005/insight-ai/internal/infrastructure/database"
	httpmw "github.com/ashboi005/insight-ai/internal/infrastructure/http/middleware"
	"github.com/ashboi005/insight-ai/internal/infrastructure/storage"
	authuse "github.com/ashboi005/insight-ai/internal/usecase/auth"
	"github.com/ashboi005/insight-ai/internal/usecase/extraction"
	taskuse "github.com/ashboi005/insight-ai/internal/usecase/task"
	transcriptuse "github.com/ashboi005/insight-ai/internal/usecase/transcript"
	pkgai "github.com/ashboi005/insight-ai/pkg/ai"
	"github.com/ashboi005/insight-ai/pkg/config"
	"github.com/ashboi005/insight-ai/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply migrations only when explicitly enabled in config.
	// Production deployments should manage schema via the migrate script.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use scripts/migrate.go for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize object storage. Optional: transcript archival degrades
	// gracefully when MinIO is unreachable.
	log.Println("🗄️  Connecting to object storage...")
	var store transcriptuse.ObjectStore
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		logger.Warn("object storage unavailable, transcript archival disabled", zap.Error(err))
	} else {
		store = minioClient
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize AI extraction pipeline
	log.Println("🤖 Initializing AI components...")
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)
	extractor := extraction.NewExtractor(geminiClient, logger, extraction.DefaultOptions())

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := authuse.NewService(userRepo, jwtManager, logger)
	taskService := taskuse.NewService(taskRepo, transcriptRepo, redisClient, logger)
	// The task service owns the analytics cache; transcript-driven task
	// writes invalidate through it.
	transcriptService := transcriptuse.NewService(transcriptRepo, taskRepo, extractor, store, taskService, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)
	transcriptHandler := handler.NewTranscript(transcriptService, logger)
	taskHandler := handler.NewTask(taskService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	authEchoMW := httpmw.EchoAuth(authService)
	adminMW := httpmw.RequireAdmin()

	router := handler.NewRouter(cfg, authHandler, transcriptHandler, taskHandler, authEchoMW, adminMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
