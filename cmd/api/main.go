package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/skillforge/codelab-api/internal/config"
	"github.com/skillforge/codelab-api/internal/database"
	"github.com/skillforge/codelab-api/internal/handler"
	"github.com/skillforge/codelab-api/internal/middleware"
	"github.com/skillforge/codelab-api/internal/models"
	"github.com/skillforge/codelab-api/internal/repository"
	"github.com/skillforge/codelab-api/internal/router"
	"github.com/skillforge/codelab-api/internal/service"
	"github.com/skillforge/codelab-api/internal/worker"
	"github.com/skillforge/codelab-api/pkg/ai"
	"github.com/skillforge/codelab-api/pkg/docker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Problem{}, &models.TestCase{}, &models.Language{}, &models.Submission{}, &models.CodeReview{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	sandbox, err := docker.NewSandbox(docker.Config{
		Host:          cfg.DockerHost,
		Timeout:       cfg.ExecutionTimeout,
		MemoryLimitMB: int64(cfg.CodeRunMemoryMB),
		CPUShares:     int64(cfg.CodeRunCPUShares),
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("failed to create sandbox: %v", err)
	}
	defer sandbox.Close()

	reviewer := buildReviewer(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	problemRepo := repository.NewProblemRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	engine := service.NewExecutionEngine(sandbox, logger, service.ExecutionConfig{
		Timeout:       cfg.ExecutionTimeout,
		MemoryLimitMB: cfg.CodeRunMemoryMB,
		CPUShares:     cfg.CodeRunCPUShares,
	})

	problemService := service.NewProblemService(problemRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, engine, redisClient, cfg.QueueKey, validate, logger)
	reviewService := service.NewReviewService(reviewRepo, submissionRepo, reviewer, cfg.AIProvider, validate, logger)

	problemHandler := handler.NewProblemHandler(problemService, validate, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, validate, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ProblemHandler:    problemHandler,
		SubmissionHandler: submissionHandler,
		ReviewHandler:     reviewHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	queueWorker := worker.New(worker.Config{
		Queue:       redisClient,
		QueueKey:    cfg.QueueKey,
		Submissions: submissionService,
		NATS:        natsConn,
		Logger:      logger,
	})
	go func() {
		if err := queueWorker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("submission worker exited")
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopWorker)
}

func buildReviewer(cfg config.Config, logger zerolog.Logger) ai.Reviewer {
	switch cfg.AIProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil
		}
		reviewer, err := ai.NewAnthropicReviewer(ai.AnthropicConfig{APIKey: cfg.AnthropicAPIKey})
		if err != nil {
			logger.Warn().Err(err).Msg("anthropic reviewer unavailable")
			return nil
		}
		return reviewer
	default:
		if cfg.OpenAIAPIKey == "" {
			return nil
		}
		reviewer, err := ai.NewOpenAIReviewer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("openai reviewer unavailable")
			return nil
		}
		return reviewer
	}
}

func waitForShutdown(app *fiber.App, stopWorker context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
