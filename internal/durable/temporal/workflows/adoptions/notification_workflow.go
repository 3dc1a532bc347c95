package adoptions

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	"github.com/Apurer/adoption-coordinator/internal/durable/temporal/sequences"
)

const (
	// NotificationWorkflowName is the public identifier for registering the workflow.
	NotificationWorkflowName = "adoptions.workflows.Notification"
	// NotificationTaskQueue is the queue consumed by the worker delivering adoption notifications.
	NotificationTaskQueue = "ADOPTION_NOTIFICATIONS"
)

// NotificationWorkflowInput carries one committed notification.
type NotificationWorkflowInput struct {
	Notification ports.Notification
	TraceID      string
}

// NotificationWorkflow durably delivers an adoption notification.
func NotificationWorkflow(ctx workflow.Context, input NotificationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	requestID := input.Notification.RequestID
	logger.Info("NotificationWorkflow started", withTraceID(input.TraceID, "requestId", requestID, "status", input.Notification.Status)...)
	if err := sequences.RunNotificationDeliverySequence(ctx, input.Notification); err != nil {
		logger.Error("NotificationWorkflow failed", withTraceID(input.TraceID, "requestId", requestID, "error", err)...)
		return err
	}
	logger.Info("NotificationWorkflow completed", withTraceID(input.TraceID, "requestId", requestID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
