package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	adoptionactivities "github.com/Apurer/adoption-coordinator/internal/platform/temporal/activities/adoptions"
)

// RunNotificationDeliverySequence delivers a committed adoption notification with bounded retries.
func RunNotificationDeliverySequence(ctx workflow.Context, n ports.Notification) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("notification delivery sequence started", "requestId", n.RequestID, "status", n.Status)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), adoptionactivities.DeliverNotificationActivityName, n).Get(ctx, nil)
	if err != nil {
		logger.Error("notification delivery sequence failed", "requestId", n.RequestID, "error", err)
		return err
	}
	logger.Info("notification delivery sequence delivered", "requestId", n.RequestID)
	return nil
}
