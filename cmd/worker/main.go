package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/adoption-coordinator/internal/app/api"
	notificationworkflows "github.com/Apurer/adoption-coordinator/internal/durable/temporal/workflows/adoptions"
	platformobservability "github.com/Apurer/adoption-coordinator/internal/platform/observability"
	notificationactivities "github.com/Apurer/adoption-coordinator/internal/platform/temporal/activities/adoptions"
)

func main() {
	ctx := context.Background()
	const serviceName = "adoption-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	notifier, err := api.DirectNotifier(cfg, logger)
	if err != nil {
		logger.Error("failed to configure notifications", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := notificationactivities.NewActivities(notifier)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, notificationworkflows.NotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(notificationworkflows.NotificationWorkflow, workflow.RegisterOptions{Name: notificationworkflows.NotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.DeliverNotification, activity.RegisterOptions{Name: notificationactivities.DeliverNotificationActivityName})

	logger.Info("worker listening", slog.String("taskQueue", notificationworkflows.NotificationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
