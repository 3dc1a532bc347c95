package notifications

import (
	"context"
	"log/slog"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the structured log. Used when no mail provider is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n ports.Notification) error {
	l.logger.LogAttrs(ctx, slog.LevelInfo, "adoption notification",
		slog.String("event", n.Event),
		slog.String("request.id", n.RequestID),
		slog.String("animal.id", n.AnimalID),
		slog.String("status", n.Status),
		slog.String("previous_status", n.PreviousStatus),
		slog.String("actor.id", n.ActorID),
		slog.Bool("automatic", n.Automatic),
		slog.Int64("version", n.Version),
	)
	return nil
}
