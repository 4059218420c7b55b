package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-triage/internal/api/http"
	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
	"github.com/spec-kit/ticket-triage/internal/auth"
	"github.com/spec-kit/ticket-triage/internal/capability"
	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/knowledge"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/persistence"
	"github.com/spec-kit/ticket-triage/internal/pipeline"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/service"
	"github.com/spec-kit/ticket-triage/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var embed chromem.EmbeddingFunc
	if cfg.Classifier.APIKey != "" {
		embed = knowledge.NewOpenAIEmbeddingFunc(cfg.Classifier.APIKey)
	} else {
		logger.Warn("no API key configured, using local embeddings")
		embed = knowledge.NewLocalEmbeddingFunc()
	}
	store, err := knowledge.NewStore(cfg.Knowledge, embed, logger)
	if err != nil {
		logger.Fatal("failed to open knowledge store", zap.Error(err))
	}
	if cfg.Knowledge.SeedOnEmpty {
		seeded, err := store.SeedDefaults(ctx)
		if err != nil {
			logger.Warn("knowledge seeding failed", zap.Error(err))
		} else if seeded > 0 {
			logger.Info("seeded knowledge base", zap.Int("documents", seeded))
		}
	}

	var classifier capability.Classifier
	if cfg.Classifier.Provider == "openai" && cfg.Classifier.APIKey != "" {
		classifier = capability.NewOpenAIClassifier(
			cfg.Classifier.APIKey, cfg.Classifier.BaseURL, cfg.Classifier.Model, cfg.Classifier.MaxInputChars)
	} else {
		classifier = capability.NewKeywordClassifier()
	}

	metrics := observability.NewMetrics()
	tracker := pipeline.NewPerformanceTracker()
	orchestrator := pipeline.NewOrchestrator(
		classifier, store, tracker, metrics, logger, cfg.Pipeline, cfg.Classifier, cfg.Review.URLBase)

	pool := pg.PoolHandle()
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewReviewTokenManager(cfg.Review.TokenSecret, cfg.Review.TokenTTLMinutes)

	analysisService := service.NewAnalysisService(service.AnalysisDependencies{
		Orchestrator:   orchestrator,
		AnalysisRepo:   repository.NewAnalysisRepository(pool),
		PredictionRepo: repository.NewPredictionRepository(pool),
		Cache:          redis.Client,
		CacheTTL:       cfg.Redis.ResultTTL(),
		Dispatcher:     dispatcher,
		Tokens:         tokens,
	}, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	notificationService.RegisterHandlers()

	batch := worker.NewBatchProcessor(analysisService, cfg.Pipeline.BatchConcurrency, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, store),
		Analysis:  handlers.NewAnalysisHandler(analysisService, batch, metrics),
		Knowledge: handlers.NewKnowledgeHandler(store),
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
