package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/spec-kit/overseer/internal/agent"
	httptransport "github.com/spec-kit/overseer/internal/api/http"
	"github.com/spec-kit/overseer/internal/api/http/handlers"
	"github.com/spec-kit/overseer/internal/assignment"
	"github.com/spec-kit/overseer/internal/config"
	"github.com/spec-kit/overseer/internal/events"
	"github.com/spec-kit/overseer/internal/guardrail"
	"github.com/spec-kit/overseer/internal/observability"
	"github.com/spec-kit/overseer/internal/overseer"
	"github.com/spec-kit/overseer/internal/persistence"
	"github.com/spec-kit/overseer/internal/reasoning"
	"github.com/spec-kit/overseer/internal/repository"
	"github.com/spec-kit/overseer/internal/service"
	"github.com/spec-kit/overseer/internal/store"
	"github.com/spec-kit/overseer/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	specialistRepo := repository.NewSpecialistRepository(pool)
	runRepo := repository.NewRunRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	similarity := store.NewSimilarityStore(redis.Client, cfg.Similarity, logger)
	docIndex, err := store.NewDocumentIndex(cfg.DocIndex, chromem.NewEmbeddingFuncDefault(), logger)
	if err != nil {
		logger.Fatal("failed to open document index", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	reasoningClient := reasoning.NewAnthropicClient(cfg.Reasoning, logger)
	maxTokens := cfg.Reasoning.MaxTokens

	orchestrator := overseer.New(overseer.Dependencies{
		Intake:     agent.NewIntakeAgent(reasoningClient, maxTokens),
		Classifier: agent.NewClassifierAgent(reasoningClient, maxTokens),
		Diagnostic: agent.NewDiagnosticAgent(reasoningClient, maxTokens),
		Retrieval:  agent.NewRetrievalAgent(reasoningClient, maxTokens),
		Solution:   agent.NewSolutionAgent(reasoningClient, maxTokens),
		Guardrail:  guardrail.NewEvaluator(),
		Resolver:   assignment.NewResolver(specialistRepo, logger),
		Similarity: similarity,
		Documents:  docIndex,
		Tickets:    ticketRepo,
		Runs:       runRepo,
		Audits:     auditRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		Config:     cfg.Overseer,
	})

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	ticketsHandler := handlers.NewTicketsHandler(orchestrator, ticketRepo, runRepo, auditRepo)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
