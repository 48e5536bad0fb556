package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/config"
	"cvresume/orchestrator/internal/handlers"
	"cvresume/orchestrator/internal/logger"
	"cvresume/orchestrator/internal/middleware"
	"cvresume/orchestrator/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("config_loaded",
		zap.String("environment", cfg.Server.Env),
		zap.String("data_api_base_url", cfg.DataAPI.BaseURL),
		zap.String("evaluation_base_url", cfg.Evaluation.BaseURL),
		zap.Duration("data_api_timeout", cfg.DataAPI.Timeout),
		zap.Duration("evaluation_timeout", cfg.Evaluation.Timeout),
		zap.Strings("preserve_container_keys", cfg.API.PreserveContainerKeys),
		zap.Bool("role_context_enabled", cfg.Features.RoleContext),
		zap.Bool("debug_metadata", cfg.Features.DebugMetadata),
	)

	// Downstream clients, each with its own timeout and retry budget
	roleClient := services.NewRoleClient(
		cfg.DataAPI.BaseURL,
		cfg.DataAPI.Timeout,
		cfg.DataAPI.RetryMaxAttempts,
		zlog,
	)
	enricher := services.NewRoleEnricher(roleClient, cfg.Features.RoleContext, zlog)

	evaluationClient := services.NewEvaluationClient(
		cfg.Evaluation.BaseURL,
		cfg.Evaluation.Timeout,
		cfg.Evaluation.RetryMaxAttempts,
		zlog,
	)

	normalizer := services.NewResponseNormalizer(cfg.API.PreserveContainerKeys)

	orchestrator := services.NewOrchestrator(
		enricher,
		evaluationClient,
		normalizer,
		cfg.Features.DebugMetadata,
		zlog,
	)

	evaluationHandler := handlers.NewEvaluationHandler(orchestrator, zlog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CV Resume Evaluation Orchestrator",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Evaluation.Timeout + 30*time.Second,
		ErrorHandler: newErrorHandler(zlog),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.Correlation())
	app.Use(middleware.RequestLogger(zlog))
	app.Use(middleware.APIVersion(cfg.API.SupportedVersion))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Correlation-Id, X-API-Version",
	}))

	// Routes
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     cfg.Server.ServiceName,
			"environment": cfg.Server.Env,
		})
	}
	app.Get("/health", health)
	app.Get("/healthz", health)

	api := app.Group("/api/v1")
	api.Get("/health", health)
	api.Post("/resume-evaluations", evaluationHandler.HandleEvaluate)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting_down")
		if err := app.Shutdown(); err != nil {
			zlog.Error("forced_shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server_starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("server_failed", zap.Error(err))
	}
}

// newErrorHandler guarantees the total error-envelope mapping: anything
// that escapes the handlers still leaves the service as the standard
// envelope, with the correlation id and nothing else from the internals.
func newErrorHandler(zlog *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		correlationID := middleware.CorrelationID(c)

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return c.Status(appErr.Kind.Status()).JSON(appErr.Envelope(correlationID))
		}

		status := fiber.StatusInternalServerError
		code := "INTERNAL_ERROR"
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
			if status < 500 {
				code = "HTTP_ERROR"
			}
		}

		zlog.Error("unhandled_error",
			zap.String("correlation_id", correlationID),
			zap.Int("status", status),
			zap.Error(err),
		)

		return c.Status(status).JSON(apperr.Envelope{
			Code:          code,
			Message:       message,
			SubErrors:     []apperr.SubError{},
			Timestamp:     time.Now().Unix(),
			CorrelationID: correlationID,
		})
	}
}
