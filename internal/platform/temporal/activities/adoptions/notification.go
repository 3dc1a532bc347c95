package adoptions

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

// DeliverNotificationActivityName delivers one adoption notification to the configured channel.
const DeliverNotificationActivityName = "adoptions.activities.DeliverNotification"

// Activities groups activities that operate on the adoptions bounded context.
type Activities struct {
	notifier ports.Notifier
}

// NewActivities wires the delivery channel into the Temporal activities bundle.
func NewActivities(notifier ports.Notifier) *Activities {
	return &Activities{notifier: notifier}
}

// DeliverNotification hands the notification to the underlying notifier. Errors are retried by Temporal.
func (a *Activities) DeliverNotification(ctx context.Context, n ports.Notification) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("notification activity not initialized", "requestId", n.RequestID)
		return errors.New("notification activity not initialized")
	}
	var hb deliveryHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Delivered {
		logger.Info("DeliverNotification already completed in prior attempt; skipping", "requestId", n.RequestID)
		return nil
	}
	logger.Info("DeliverNotification activity started", "requestId", n.RequestID, "status", n.Status)
	if err := a.notifier.Notify(ctx, n); err != nil {
		logger.Error("DeliverNotification activity failed", "requestId", n.RequestID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, deliveryHeartbeat{Delivered: true})
	logger.Info("DeliverNotification activity completed", "requestId", n.RequestID)
	return nil
}

type deliveryHeartbeat struct {
	Delivered bool
}
