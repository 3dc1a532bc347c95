package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OneApprovedIndex enforces at most one approved request per animal.
const OneApprovedIndex = "idx_adoption_requests_one_approved"

// Run applies the schema for the adoption coordinator.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&animalRecord{},
		&requestRecord{},
		&idempotencyRecord{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON adoption_requests (animal_id) WHERE status = 'approved'",
		OneApprovedIndex,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", OneApprovedIndex, err)
	}
	return nil
}

// Animal schema mirrors the adoptions Postgres adapter.
type animalRecord struct {
	ID              string    `gorm:"primaryKey;column:id;size:64"`
	Name            string    `gorm:"column:name"`
	Availability    string    `gorm:"column:availability;type:varchar(16);index"`
	ActiveRequestID *string   `gorm:"column:active_request_id;size:64"`
	Version         int64     `gorm:"column:version;not null;default:1"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (animalRecord) TableName() string { return "animals" }

type requestRecord struct {
	ID               string     `gorm:"primaryKey;column:id;size:64"`
	AnimalID         string     `gorm:"column:animal_id;size:64;not null;index:idx_adoption_requests_animal_status"`
	Status           string     `gorm:"column:status;type:varchar(16);not null;index:idx_adoption_requests_animal_status"`
	ApplicantProfile string     `gorm:"column:applicant_profile;type:jsonb;not null"`
	SubmittedAt      time.Time  `gorm:"column:submitted_at;index"`
	DecidedAt        *time.Time `gorm:"column:decided_at"`
	DecidedBy        string     `gorm:"column:decided_by;size:64"`
	History          string     `gorm:"column:history;type:jsonb;not null;default:'[]'"`
	Version          int64      `gorm:"column:version;not null;default:1"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (requestRecord) TableName() string { return "adoption_requests" }

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	RequestID   string    `gorm:"column:request_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
}

func (idempotencyRecord) TableName() string { return "adoption_idempotency_keys" }
