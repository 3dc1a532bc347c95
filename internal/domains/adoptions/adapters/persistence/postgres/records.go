package postgres

import (
	"encoding/json"
	"time"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	"github.com/Apurer/adoption-coordinator/internal/platform/migrations"
)

// OneApprovedIndex backs the at-most-one-approval rule in the schema.
const OneApprovedIndex = migrations.OneApprovedIndex

type animalRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:64"`
	Name            string    `gorm:"column:name"`
	Availability    string    `gorm:"column:availability;type:varchar(16);index"`
	ActiveRequestID *string   `gorm:"column:active_request_id;size:64"`
	Version         int64     `gorm:"column:version;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (animalRecord) TableName() string { return "animals" }

type historyEntry struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	By        string    `json:"by"`
	At        time.Time `json:"at"`
	Reason    string    `json:"reason,omitempty"`
	Automatic bool      `json:"automatic,omitempty"`
}

type requestRecord struct {
	ID               string         `gorm:"primaryKey;column:id;size:64"`
	AnimalID         string         `gorm:"column:animal_id;size:64;index:idx_adoption_requests_animal_status"`
	Status           string         `gorm:"column:status;type:varchar(16);index:idx_adoption_requests_animal_status"`
	ApplicantProfile string         `gorm:"column:applicant_profile;type:jsonb"`
	SubmittedAt      time.Time      `gorm:"column:submitted_at;index"`
	DecidedAt        *time.Time     `gorm:"column:decided_at"`
	DecidedBy        string         `gorm:"column:decided_by;size:64"`
	History          []historyEntry `gorm:"column:history;type:jsonb;serializer:json"`
	Version          int64          `gorm:"column:version;not null"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (requestRecord) TableName() string { return "adoption_requests" }

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	RequestID   string    `gorm:"column:request_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "adoption_idempotency_keys" }

func toAnimalRecord(a *domain.Animal) animalRecord {
	rec := animalRecord{
		ID:           a.ID,
		Name:         a.Name,
		Availability: string(a.Availability),
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.ActiveRequestID != "" {
		active := a.ActiveRequestID
		rec.ActiveRequestID = &active
	}
	return rec
}

func (r animalRecord) toDomain() (*domain.Animal, error) {
	availability, err := domain.ParseAvailability(r.Availability)
	if err != nil {
		return nil, err
	}
	animal := &domain.Animal{
		ID:           r.ID,
		Name:         r.Name,
		Availability: availability,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ActiveRequestID != nil {
		animal.ActiveRequestID = *r.ActiveRequestID
	}
	return animal, nil
}

func toHistory(changes []domain.StatusChange) []historyEntry {
	out := make([]historyEntry, len(changes))
	for i, c := range changes {
		out[i] = historyEntry{
			From:      string(c.From),
			To:        string(c.To),
			By:        c.By,
			At:        c.At,
			Reason:    c.Reason,
			Automatic: c.Automatic,
		}
	}
	return out
}

func historyJSON(changes []domain.StatusChange) (string, error) {
	payload, err := json.Marshal(toHistory(changes))
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func toRequestRecord(r *domain.AdoptionRequest) requestRecord {
	return requestRecord{
		ID:               r.ID,
		AnimalID:         r.AnimalID,
		Status:           string(r.Status),
		ApplicantProfile: string(r.ApplicantProfile),
		SubmittedAt:      r.SubmittedAt,
		DecidedAt:        r.DecidedAt,
		DecidedBy:        r.DecidedBy,
		History:          toHistory(r.History),
		Version:          r.Version,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r requestRecord) toDomain() (*domain.AdoptionRequest, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	req := &domain.AdoptionRequest{
		ID:               r.ID,
		AnimalID:         r.AnimalID,
		Status:           status,
		ApplicantProfile: json.RawMessage(r.ApplicantProfile),
		SubmittedAt:      r.SubmittedAt,
		DecidedAt:        r.DecidedAt,
		DecidedBy:        r.DecidedBy,
		Version:          r.Version,
		UpdatedAt:        r.UpdatedAt,
	}
	for _, h := range r.History {
		req.History = append(req.History, domain.StatusChange{
			From:      domain.Status(h.From),
			To:        domain.Status(h.To),
			By:        h.By,
			At:        h.At,
			Reason:    h.Reason,
			Automatic: h.Automatic,
		})
	}
	return req, nil
}

func toPortRecord(rec idempotencyRecord) *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		RequestID:   rec.RequestID,
		CreatedAt:   rec.CreatedAt,
	}
}
