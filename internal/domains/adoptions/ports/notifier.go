package ports

import (
	"context"
	"encoding/json"
	"time"
)

// Notification describes one committed lifecycle event for downstream delivery.
type Notification struct {
	Event            string          `json:"event"`
	RequestID        string          `json:"requestId"`
	AnimalID         string          `json:"animalId"`
	Status           string          `json:"status"`
	PreviousStatus   string          `json:"previousStatus,omitempty"`
	ActorID          string          `json:"actorId,omitempty"`
	Reason           string          `json:"reason,omitempty"`
	Automatic        bool            `json:"automatic,omitempty"`
	ApplicantProfile json.RawMessage `json:"applicantProfile,omitempty"`
	Version          int64           `json:"version"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

// Notifier delivers notifications. Delivery happens after commit and never affects the outcome.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}
