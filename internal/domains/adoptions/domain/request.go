package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is a step in the adoption request lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ReasonCompetingApproval is recorded on requests closed because another applicant was approved.
const ReasonCompetingApproval = "another request for this animal was approved"

var (
	ErrEmptyRequestID = errors.New("adoption request id is required")
	ErrUnknownStatus  = errors.New("unknown adoption status")
	ErrEmptyProfile   = errors.New("applicant profile is required")
	ErrInvalidProfile = errors.New("applicant profile must be a JSON object")
	ErrMissingActor   = errors.New("acting staff member is required")
	ErrRequestClosed  = errors.New("adoption request is already closed")
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusInReview, StatusApproved, StatusRejected, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// StatusChange is one entry of a request's audit trail.
type StatusChange struct {
	From      Status
	To        Status
	By        string
	At        time.Time
	Reason    string
	Automatic bool
}

// AdoptionRequest is an applicant's request to adopt one animal.
type AdoptionRequest struct {
	ID               string
	AnimalID         string
	Status           Status
	ApplicantProfile json.RawMessage
	SubmittedAt      time.Time
	DecidedAt        *time.Time
	DecidedBy        string
	History          []StatusChange
	Version          int64
	UpdatedAt        time.Time

	events []Event
}

// ValidateApplicantProfile accepts any non-empty JSON object.
func ValidateApplicantProfile(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyProfile
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if len(fields) == 0 {
		return ErrEmptyProfile
	}
	return nil
}

// NewAdoptionRequest creates a pending request and records the submission event.
func NewAdoptionRequest(id, animalID string, profile json.RawMessage, submittedAt time.Time) (*AdoptionRequest, error) {
	id = strings.TrimSpace(id)
	animalID = strings.TrimSpace(animalID)
	if id == "" {
		return nil, ErrEmptyRequestID
	}
	if animalID == "" {
		return nil, ErrEmptyAnimalID
	}
	if err := ValidateApplicantProfile(profile); err != nil {
		return nil, err
	}
	req := &AdoptionRequest{
		ID:               id,
		AnimalID:         animalID,
		Status:           StatusPending,
		ApplicantProfile: append(json.RawMessage(nil), bytes.TrimSpace(profile)...),
		SubmittedAt:      submittedAt,
		UpdatedAt:        submittedAt,
	}
	req.record(AdoptionRequested{
		BaseEvent: NewBaseEvent(submittedAt),
		RequestID: req.ID,
		AnimalID:  req.AnimalID,
	})
	return req, nil
}

// Transition moves the request along the lifecycle on behalf of a staff member.
func (r *AdoptionRequest) Transition(to Status, by string, at time.Time) error {
	return r.apply(StatusChange{From: r.Status, To: to, By: by, At: at})
}

// AutoReject closes a competing request after another applicant was approved.
func (r *AdoptionRequest) AutoReject(by string, at time.Time, reason string) error {
	if r.Status.IsTerminal() {
		return ErrRequestClosed
	}
	return r.apply(StatusChange{From: r.Status, To: StatusRejected, By: by, At: at, Reason: reason, Automatic: true})
}

func (r *AdoptionRequest) apply(change StatusChange) error {
	if strings.TrimSpace(change.By) == "" {
		return ErrMissingActor
	}
	if !CanTransition(change.From, change.To) {
		return &TransitionError{From: change.From, To: change.To}
	}
	r.Status = change.To
	r.UpdatedAt = change.At
	if change.To.IsTerminal() {
		decidedAt := change.At
		r.DecidedAt = &decidedAt
		r.DecidedBy = change.By
	}
	r.History = append(r.History, change)
	r.record(AdoptionStatusChanged{
		BaseEvent: NewBaseEvent(change.At),
		RequestID: r.ID,
		AnimalID:  r.AnimalID,
		From:      change.From,
		To:        change.To,
		By:        change.By,
		Reason:    change.Reason,
		Automatic: change.Automatic,
	})
	return nil
}

func (r *AdoptionRequest) record(event Event) {
	r.events = append(r.events, event)
}

// Events returns the events recorded since the aggregate was loaded.
func (r *AdoptionRequest) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Clone copies persistent state. Recorded events stay with the original.
func (r *AdoptionRequest) Clone() *AdoptionRequest {
	if r == nil {
		return nil
	}
	clone := *r
	clone.events = nil
	clone.ApplicantProfile = append(json.RawMessage(nil), r.ApplicantProfile...)
	if r.DecidedAt != nil {
		decidedAt := *r.DecidedAt
		clone.DecidedAt = &decidedAt
	}
	if r.History != nil {
		clone.History = make([]StatusChange, len(r.History))
		copy(clone.History, r.History)
	}
	return &clone
}
