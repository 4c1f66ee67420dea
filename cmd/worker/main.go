package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/adapters/event"
	"github.com/khoahotran/devconnect/adapters/persistence/store"
	"github.com/khoahotran/devconnect/internal/application/usecase/cleanup"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, logger.WithLevel(cfg.App.LogLevel), logger.WithService("devconnect-worker"))
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnect Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("worker needs KAFKA_BROKERS", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, "devconnect-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Repositories
	repos, err := store.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open store", err)
	}
	defer repos.Close()

	// Worker Use Case
	cascade := cleanup.NewCascadeUserDeletionUseCase(repos.Charts, appLogger, repos.Items()...)

	// Kafka Consumer
	reader := event.NewUserEventsReader(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	defer reader.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicUserEvents), zap.String("group_id", cfg.Kafka.GroupID))
	if err := event.NewUserEventConsumer(reader, cascade, appLogger).Run(ctx); err != nil {
		appLogger.Error("Worker stopped", err)
	}
	appLogger.Info("Worker exiting")
}
