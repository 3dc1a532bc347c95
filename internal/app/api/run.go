package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	adoptionserver "github.com/Apurer/adoption-coordinator/go"

	adoptionsobs "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/observability"
	adoptionsworkflows "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/workflows"
	adoptionsapp "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application"
	adoptionsports "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	platformmetrics "github.com/Apurer/adoption-coordinator/internal/platform/metrics"
	platformobservability "github.com/Apurer/adoption-coordinator/internal/platform/observability"
)

const serviceName = "adoption-api"

// Run boots the adoption HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	persistence, cleanupStore, err := OpenPersistence(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStore()

	notifier, closeNotifier, err := buildNotifier(cfg, instruments)
	if err != nil {
		return err
	}
	defer closeNotifier()

	coreService := adoptionsapp.NewService(
		persistence,
		adoptionsapp.WithNotifier(notifier),
		adoptionsapp.WithLogger(logger),
		adoptionsapp.WithRetryPolicy(adoptionsapp.RetryPolicy{
			MaxAttempts:     cfg.TransitionMaxAttempts,
			InitialInterval: cfg.TransitionBackoff,
			MaxInterval:     10 * cfg.TransitionBackoff,
		}),
	)
	service := adoptionsobs.New(
		coreService,
		adoptionsobs.WithLogger(logger),
		adoptionsobs.WithTracer(instruments.Tracer("internal.adoptions.application")),
		adoptionsobs.WithMeter(instruments.Meter("internal.adoptions.application")),
	)

	gate, err := BuildAuthGate(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure staff authentication: %w", err)
	}

	metrics := platformmetrics.New()
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		metrics.Middleware(),
		adoptionserver.RequestTimeout(cfg.RequestTimeout),
	)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	adoptionserver.NewRouterWithGinEngine(router, adoptionserver.ApiHandleFunctions{
		AdoptionAPI: adoptionserver.NewAdoptionAPI(service),
		AnimalAPI:   adoptionserver.NewAnimalAPI(service),
		Auth:        gate,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("adoption API listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("adoption API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down adoption API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// buildNotifier queues notifications in-process ahead of Temporal when reachable and ahead of direct delivery otherwise.
func buildNotifier(cfg Config, instruments *platformobservability.Instruments) (adoptionsports.Notifier, func(), error) {
	logger := instruments.Logger
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, delivering notifications in-process", slog.String("error", err.Error()))
	} else {
		logger.Info("Temporal notification workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		dispatcher, drain := QueueNotifier(adoptionsworkflows.NewTemporalNotifier(temporalClient), cfg, logger, 10*time.Second)
		return dispatcher, func() {
			drain()
			temporalClient.Close()
		}, nil
	}

	direct, err := DirectNotifier(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure notifications: %w", err)
	}
	dispatcher, drain := QueueNotifier(direct, cfg, logger, 10*time.Second)
	return dispatcher, drain, nil
}
