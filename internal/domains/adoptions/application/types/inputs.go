package types

import (
	"encoding/json"

	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
)

// SubmitInput carries a new adoption request. IdempotencyKey is optional.
type SubmitInput struct {
	AnimalID         string
	ApplicantProfile json.RawMessage
	IdempotencyKey   string
}

// TransitionInput moves a request to Target on behalf of Actor.
// ExpectedVersion, when set, must match the stored request version.
type TransitionInput struct {
	RequestID       string
	Target          string
	Actor           staffdomain.Identity
	ExpectedVersion *int64
}

type ListRequestsInput struct {
	Statuses []string
	AnimalID string
	Page     int
	Limit    int
}

type RegisterAnimalInput struct {
	ID   string
	Name string
}
