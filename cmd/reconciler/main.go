package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/adoption-coordinator/internal/app/api"
	adoptionsapp "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application"
	platformobservability "github.com/Apurer/adoption-coordinator/internal/platform/observability"
	"github.com/Apurer/adoption-coordinator/internal/platform/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	const serviceName = "adoption-reconciler"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return 2
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Printf("failed to initialize observability: %v", err)
		return 2
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	persistence, cleanup, err := api.OpenDurablePersistence(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open adoption stores", slog.String("error", err.Error()))
		return 2
	}
	defer cleanup()
	auditor := adoptionsapp.NewAuditor(persistence)

	audit := func(ctx context.Context) (int, error) {
		violations, err := auditor.Audit(ctx)
		for _, v := range violations {
			logger.Error("adoption invariant violated",
				slog.String("animal.id", v.AnimalID),
				slog.String("adoption.id", v.RequestID),
				slog.String("rule", v.Rule),
				slog.String("detail", v.Detail),
			)
		}
		if err == nil {
			logger.Info("adoption audit completed", slog.Int("violations", len(violations)))
		}
		return len(violations), err
	}

	if cfg.ReconcileOnce {
		found, err := audit(ctx)
		if err != nil {
			logger.Error("adoption audit failed", slog.String("error", err.Error()))
			return 2
		}
		if found > 0 {
			return 1
		}
		return 0
	}

	s := scheduler.New(scheduler.WithLogger(logger), scheduler.WithJobTimeout(time.Minute))
	if err := s.Register(scheduler.Job{
		Name: "adoption-invariant-audit",
		Spec: cfg.ReconcileSchedule,
		Run: func(ctx context.Context) error {
			_, err := audit(ctx)
			return err
		},
	}); err != nil {
		logger.Error("failed to schedule audit", slog.String("error", err.Error()))
		return 2
	}
	s.Start()
	logger.Info("reconciler running", slog.String("schedule", cfg.ReconcileSchedule))
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		logger.Warn("audit still running at shutdown", slog.String("error", err.Error()))
	}
	return 0
}
