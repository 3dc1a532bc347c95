package mapper

import (
	"encoding/json"
	"time"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/shared/pagination"
)

// SubmitAdoption is the inbound payload for POST /adoptions.
type SubmitAdoption struct {
	AnimalID         string          `json:"animalId"`
	ApplicantProfile json.RawMessage `json:"applicantProfile"`
}

// StatusPatch is the inbound payload for PATCH /adoptions/{id}/status.
type StatusPatch struct {
	Status string `json:"status"`
}

// RegisterAnimal is the inbound payload for POST /animals.
type RegisterAnimal struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// StatusChange is one history entry.
type StatusChange struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	By        string    `json:"by"`
	At        time.Time `json:"at"`
	Reason    string    `json:"reason,omitempty"`
	Automatic bool      `json:"automatic,omitempty"`
}

// AdoptionRequest is the HTTP representation of a request.
type AdoptionRequest struct {
	ID               string          `json:"id"`
	AnimalID         string          `json:"animalId"`
	Status           string          `json:"status"`
	ApplicantProfile json.RawMessage `json:"applicantProfile"`
	SubmittedAt      time.Time       `json:"submittedAt"`
	DecidedAt        *time.Time      `json:"decidedAt,omitempty"`
	DecidedBy        string          `json:"decidedBy,omitempty"`
	Version          int64           `json:"version"`
	History          []StatusChange  `json:"history"`
}

// AdoptionPage is the paged listing envelope.
type AdoptionPage struct {
	Items []AdoptionRequest `json:"items"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Total int               `json:"total"`
	Limit int               `json:"limit"`
}

// Animal is the HTTP representation of an animal.
type Animal struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Availability    string    `json:"availability"`
	ActiveRequestID string    `json:"activeRequestId,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// ToSubmitInput maps the payload and the optional Idempotency-Key header.
func ToSubmitInput(payload SubmitAdoption, idempotencyKey string) types.SubmitInput {
	return types.SubmitInput{
		AnimalID:         payload.AnimalID,
		ApplicantProfile: payload.ApplicantProfile,
		IdempotencyKey:   idempotencyKey,
	}
}

// ToRegisterAnimalInput maps the animal registration payload.
func ToRegisterAnimalInput(payload RegisterAnimal) types.RegisterAnimalInput {
	return types.RegisterAnimalInput{ID: payload.ID, Name: payload.Name}
}

// FromAdoptionRequest maps the aggregate for responses.
func FromAdoptionRequest(req *domain.AdoptionRequest) AdoptionRequest {
	if req == nil {
		return AdoptionRequest{}
	}
	out := AdoptionRequest{
		ID:               req.ID,
		AnimalID:         req.AnimalID,
		Status:           string(req.Status),
		ApplicantProfile: req.ApplicantProfile,
		SubmittedAt:      req.SubmittedAt,
		DecidedAt:        req.DecidedAt,
		DecidedBy:        req.DecidedBy,
		Version:          req.Version,
		History:          make([]StatusChange, 0, len(req.History)),
	}
	for _, h := range req.History {
		out.History = append(out.History, StatusChange{
			From:      string(h.From),
			To:        string(h.To),
			By:        h.By,
			At:        h.At,
			Reason:    h.Reason,
			Automatic: h.Automatic,
		})
	}
	return out
}

// FromAdoptionPage maps a page of aggregates.
func FromAdoptionPage(page *pagination.Page[*domain.AdoptionRequest]) AdoptionPage {
	if page == nil {
		return AdoptionPage{Items: []AdoptionRequest{}}
	}
	mapped := pagination.Map(page, FromAdoptionRequest)
	return AdoptionPage{
		Items: mapped.Items,
		Page:  mapped.Page,
		Pages: mapped.Pages,
		Total: mapped.Total,
		Limit: mapped.Limit,
	}
}

// FromAnimal maps the animal aggregate for responses.
func FromAnimal(animal *domain.Animal) Animal {
	if animal == nil {
		return Animal{}
	}
	return Animal{
		ID:              animal.ID,
		Name:            animal.Name,
		Availability:    string(animal.Availability),
		ActiveRequestID: animal.ActiveRequestID,
		Version:         animal.Version,
		CreatedAt:       animal.CreatedAt,
		UpdatedAt:       animal.UpdatedAt,
	}
}
