package application

import (
	"context"
	"fmt"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

// Violation rule names reported by Audit.
const (
	RuleMultipleApprovals       = "multiple_approvals"
	RuleAdoptedWithoutApproval  = "adopted_without_matching_approval"
	RuleApprovalWithoutAdoption = "approval_without_adoption"
	RuleOpenRequestOnAdopted    = "open_request_on_adopted_animal"
	RuleReservationNotInReview  = "reservation_not_in_review"
	RuleStaleActiveRequest      = "stale_active_request"
)

// Violation is one inconsistency between an animal and its requests.
type Violation struct {
	AnimalID  string
	RequestID string
	Rule      string
	Detail    string
}

// Auditor scans stored state for animals whose requests disagree with their availability.
type Auditor struct {
	persistence ports.Persistence
}

func NewAuditor(persistence ports.Persistence) *Auditor {
	return &Auditor{persistence: persistence}
}

// Audit checks every animal. Each animal is read with its requests inside one unit of work.
func (a *Auditor) Audit(ctx context.Context) ([]Violation, error) {
	animals, err := a.persistence.Stores().Animals.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	var violations []Violation
	for _, listed := range animals {
		if err := ctx.Err(); err != nil {
			return violations, err
		}
		err := a.persistence.Do(ctx, func(ctx context.Context, stores ports.Stores) error {
			animal, err := stores.Animals.Get(ctx, listed.ID)
			if err != nil {
				return err
			}
			requests, err := stores.Requests.ListByAnimal(ctx, animal.ID)
			if err != nil {
				return err
			}
			violations = append(violations, auditAnimal(animal, requests)...)
			return nil
		})
		if err != nil {
			return violations, mapError(err)
		}
	}
	return violations, nil
}

func auditAnimal(animal *domain.Animal, requests []*domain.AdoptionRequest) []Violation {
	var (
		out      []Violation
		approved []*domain.AdoptionRequest
		open     []*domain.AdoptionRequest
		active   *domain.AdoptionRequest
	)
	for _, req := range requests {
		switch {
		case req.Status == domain.StatusApproved:
			approved = append(approved, req)
		case !req.Status.IsTerminal():
			open = append(open, req)
		}
		if req.ID == animal.ActiveRequestID {
			active = req
		}
	}
	violation := func(requestID, rule, detail string) {
		out = append(out, Violation{AnimalID: animal.ID, RequestID: requestID, Rule: rule, Detail: detail})
	}

	if len(approved) > 1 {
		violation("", RuleMultipleApprovals, fmt.Sprintf("%d approved requests", len(approved)))
	}
	switch animal.Availability {
	case domain.AvailabilityAdopted:
		if active == nil || active.Status != domain.StatusApproved {
			violation(animal.ActiveRequestID, RuleAdoptedWithoutApproval, "adopting request is missing or not approved")
		}
		for _, req := range open {
			violation(req.ID, RuleOpenRequestOnAdopted, fmt.Sprintf("request still %s", req.Status))
		}
	case domain.AvailabilityReserved:
		if active == nil || active.Status != domain.StatusInReview {
			violation(animal.ActiveRequestID, RuleReservationNotInReview, "reserving request is missing or not in review")
		}
	case domain.AvailabilityAvailable:
		if animal.ActiveRequestID != "" {
			violation(animal.ActiveRequestID, RuleStaleActiveRequest, "available animal still names an active request")
		}
	}
	if animal.Availability != domain.AvailabilityAdopted {
		for _, req := range approved {
			violation(req.ID, RuleApprovalWithoutAdoption, fmt.Sprintf("animal is %s", animal.Availability))
		}
	}
	return out
}
