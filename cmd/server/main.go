package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/adapters/event"
	httpAdapter "github.com/khoahotran/devconnect/adapters/http"
	"github.com/khoahotran/devconnect/adapters/persistence"
	"github.com/khoahotran/devconnect/adapters/persistence/store"
	"github.com/khoahotran/devconnect/internal/application/service"
	authUC "github.com/khoahotran/devconnect/internal/application/usecase/auth"
	chartUC "github.com/khoahotran/devconnect/internal/application/usecase/chart"
	"github.com/khoahotran/devconnect/internal/application/usecase/cleanup"
	contentUC "github.com/khoahotran/devconnect/internal/application/usecase/content"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/content"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/tracing"
	"github.com/khoahotran/devconnect/pkg/validation"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, logger.WithLevel(cfg.App.LogLevel), logger.WithService("devconnect-api"))
	defer appLogger.Sync()
	appLogger.Info("Start DevConnect API Server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg, appLogger, "devconnect-api")
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

	// Profile cache
	var profileCache service.ProfileCache = persistence.NewNopProfileCache()
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		profileCache = persistence.NewRedisProfileCache(redisClient, cfg.Redis.CacheTTL, appLogger)
	}

	// Events: Kafka when brokers are configured, otherwise cascade in process
	var events service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		events = kafkaClient
	} else {
		cascade := cleanup.NewCascadeUserDeletionUseCase(repos.Charts, appLogger, repos.Items()...)
		events = event.NewLocalPublisher(cascade, appLogger)
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	validator := validation.New()

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(repos.Users, jwtSvc, appLogger)
	loginUseCase := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(repos.Users)
	profileUseCase := profileUC.NewProfileUseCase(repos.Profiles, repos.Users, profileCache, events, appLogger)
	createChartUseCase := chartUC.NewCreateChartUseCase(repos.Charts, appLogger)
	listChartsUseCase := chartUC.NewListChartsUseCase(repos.Charts)

	contentHandler := func(kind content.Kind, items content.Repository) *httpAdapter.ContentHandler {
		return httpAdapter.NewContentHandler(
			kind,
			contentUC.NewCreateItemUseCase(items, repos.Users, events, appLogger),
			contentUC.NewListItemsUseCase(items),
			contentUC.NewGetItemUseCase(items),
			contentUC.NewDeleteItemUseCase(items, events, appLogger),
			contentUC.NewLikeUseCase(items, events, appLogger),
			contentUC.NewCommentUseCase(items, repos.Users, events, appLogger),
			validator,
		)
	}

	// HTTP Handlers
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:     httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, currentUserUseCase, validator),
		Profile:  httpAdapter.NewProfileHandler(profileUseCase, validator, appLogger),
		Posts:    contentHandler(content.KindPost, repos.Posts),
		Projects: contentHandler(content.KindProject, repos.Projects),
		Charts:   httpAdapter.NewChartHandler(createChartUseCase, listChartsUseCase, validator),
	}, jwtSvc, appLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Listen failed", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exiting")
}
