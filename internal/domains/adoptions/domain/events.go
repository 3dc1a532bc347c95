package domain

import "time"

// Event represents something that happened to an adoption request.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the common timestamp.
type BaseEvent struct {
	Timestamp time.Time
}

func NewBaseEvent(at time.Time) BaseEvent {
	return BaseEvent{Timestamp: at}
}

func (e BaseEvent) OccurredAt() time.Time {
	if e.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return e.Timestamp
}

const (
	EventAdoptionRequested     = "adoptions.request_submitted"
	EventAdoptionStatusChanged = "adoptions.status_changed"
)

// AdoptionRequested fires once a new request is persisted.
type AdoptionRequested struct {
	BaseEvent
	RequestID string
	AnimalID  string
}

func (AdoptionRequested) EventName() string { return EventAdoptionRequested }

// AdoptionStatusChanged fires for every lifecycle move, automatic ones included.
type AdoptionStatusChanged struct {
	BaseEvent
	RequestID string
	AnimalID  string
	From      Status
	To        Status
	By        string
	Reason    string
	Automatic bool
}

func (AdoptionStatusChanged) EventName() string { return EventAdoptionStatusChanged }
