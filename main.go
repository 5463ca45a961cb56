package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workout-engine/internal/config"
	"workout-engine/internal/content"
	"workout-engine/internal/database"
	"workout-engine/internal/handlers"
	"workout-engine/internal/logger"
	"workout-engine/internal/middleware"
	"workout-engine/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
)

// CustomValidator adapts go-playground/validator to echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.NewWithLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.EnableDebug {
		appLogger.SetLevel(logger.DEBUG)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	catalogStore := database.NewCatalogStore(db)

	// Content and program rows come from Firestore when configured, sqlite
	// otherwise.
	providers := services.Providers{
		Exercises: catalogStore,
		Content:   database.NewContentStore(db),
		Programs:  database.NewProgramStore(db),
	}
	if cfg.Firestore.ProjectID != "" {
		fsStore, err := content.NewFirestoreStore(context.Background(), cfg.Firestore.ProjectID)
		if err != nil {
			log.Printf("Firestore unavailable, falling back to sqlite content: %v", err)
		} else {
			defer func() {
				if err := fsStore.Close(); err != nil {
					log.Printf("Error closing firestore client: %v", err)
				}
			}()
			providers.Content = fsStore
			providers.Programs = fsStore
		}
	}

	orchestrator := services.NewOrchestrator(providers, appLogger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Set validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	e.Use(appLogger.HTTPLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	e.Use(middleware.Security())
	e.Use(middleware.RateLimit(cfg))

	// Centralized error handler
	middleware.SetupErrorHandler(e)

	// Health check
	e.GET("/health", handlers.HealthCheckHandler(db))

	// Readiness check
	e.GET("/ready", func(c echo.Context) error {
		if err := db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{"ready": false, "reason": "db_unreachable"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"ready": true})
	})

	workoutHandler := handlers.NewWorkoutHandler(orchestrator, catalogStore)
	pdfHandler := handlers.NewPDFHandler(workoutHandler)
	handlers.RegisterWorkoutRoutes(e, workoutHandler, pdfHandler)

	// Start server with graceful shutdown
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
