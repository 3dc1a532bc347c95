package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	adoptionworkflows "github.com/Apurer/adoption-coordinator/internal/durable/temporal/workflows/adoptions"
)

var _ ports.Notifier = (*TemporalNotifier)(nil)

// WorkflowStarter is the slice of client.Client used to start notification workflows.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalNotifier starts a durable delivery workflow per notification and does not wait for it.
type TemporalNotifier struct {
	client    WorkflowStarter
	taskQueue string
}

// NewTemporalNotifier wires a Temporal client into the notifier.
func NewTemporalNotifier(c WorkflowStarter) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: adoptionworkflows.NotificationTaskQueue}
}

// Notify starts the workflow. A workflow already running for the same transition counts as delivered.
func (o *TemporalNotifier) Notify(ctx context.Context, n ports.Notification) error {
	if o == nil || o.client == nil {
		return errors.New("temporal notifier not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        notificationWorkflowID(n),
		TaskQueue: o.taskQueue,
	}
	_, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		adoptionworkflows.NotificationWorkflowName,
		adoptionworkflows.NotificationWorkflowInput{Notification: n, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return fmt.Errorf("start notification workflow: %w", err)
	}
	return nil
}

func notificationWorkflowID(n ports.Notification) string {
	return fmt.Sprintf("adoption-notification-%s-%s-v%d", n.RequestID, n.Status, n.Version)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
