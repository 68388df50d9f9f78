package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/creatorhq/creator-api/internal/config"
	"github.com/creatorhq/creator-api/internal/database"
	"github.com/creatorhq/creator-api/internal/handlers"
	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/middleware"
	"github.com/creatorhq/creator-api/internal/types"

	_ "github.com/creatorhq/creator-api/docs/api" // Swagger docs
)

// @title Creator API
// @version 1.0.0
// @description AI content creator toolkit backend
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/creatorhq/creator-api

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load .env if present; environment wins in production
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New("server")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ai := llm.NewClient(llm.ClientConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("creatorapi")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db}
	authHandler := &handlers.AuthHandler{}
	creatorHandler := &handlers.CreatorHandler{DB: db, AI: ai, Log: appLog}
	artifactHandler := &handlers.ArtifactHandler{DB: db, Log: appLog}

	api.Get("/health", healthHandler.Check)

	authUser := middleware.AuthUser(db, cfg, appLog)

	api.Get("/auth/me", authUser, authHandler.Me)

	// Creator routes (all require user authentication)
	creator := api.Group("/creator", authUser)
	creator.Post("/hooks/analyze", creatorHandler.AnalyzeHook)
	creator.Post("/ideas", creatorHandler.GenerateIdeas)
	creator.Post("/scripts", creatorHandler.GenerateScript)
	creator.Post("/repurpose", creatorHandler.Repurpose)
	creator.Post("/monetization", creatorHandler.Monetization)
	creator.Post("/sponsorship", creatorHandler.Sponsorship)
	creator.Post("/thumbnails/analyze", creatorHandler.AnalyzeThumbnail)
	creator.Get("/artifacts", artifactHandler.List)
	creator.Delete("/artifacts/:id", artifactHandler.Delete)
	creator.Get("/stats", artifactHandler.Stats)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Authorizer session validation is initialized lazily on the first
	// authenticated request.
	appLog.Info().Msg("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		appLog.Info().Msg("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	appLog.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	appLog.Info().Msg("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
