package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

var (
	_ ports.AnimalStore          = (*AnimalStore)(nil)
	_ ports.AdoptionRequestStore = (*RequestStore)(nil)
	_ ports.IdempotencyStore     = (*IdempotencyStore)(nil)
)

var errNotConfigured = errors.New("postgres adoption store not configured")

// AnimalStore persists animals in PostgreSQL. Writes are guarded by the version column.
type AnimalStore struct {
	db  *gorm.DB
	now func() time.Time
}

func (s *AnimalStore) Create(ctx context.Context, animal *domain.Animal) (*domain.Animal, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	rec := toAnimalRecord(animal)
	rec.Version = 1
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, mapError(err)
	}
	return rec.toDomain()
}

func (s *AnimalStore) Get(ctx context.Context, id string) (*domain.Animal, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec animalRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAnimalNotFound
		}
		return nil, mapError(err)
	}
	return rec.toDomain()
}

func (s *AnimalStore) CompareAndSwap(ctx context.Context, animal *domain.Animal, expectedVersion int64) (*domain.Animal, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	rec := toAnimalRecord(animal)
	updatedAt := s.now()
	res := s.db.WithContext(ctx).Exec(
		`UPDATE animals SET name = ?, availability = ?, active_request_id = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
		rec.Name, rec.Availability, rec.ActiveRequestID, updatedAt, rec.ID, expectedVersion,
	)
	if res.Error != nil {
		return nil, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, missOrConflict(ctx, s.db, &animalRecord{}, rec.ID, ports.ErrAnimalNotFound)
	}
	next := animal.Clone()
	next.Version = expectedVersion + 1
	next.UpdatedAt = updatedAt
	return next, nil
}

// RequireVersion takes a share lock on the row, so concurrent writers wait for this transaction.
func (s *AnimalStore) RequireVersion(ctx context.Context, id string, version int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	var rec animalRecord
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id", "version").
		Where("id = ?", id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ErrAnimalNotFound
		}
		return mapError(err)
	}
	if rec.Version != version {
		return ports.ErrVersionConflict
	}
	return nil
}

func (s *AnimalStore) List(ctx context.Context) ([]*domain.Animal, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []animalRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]*domain.Animal, 0, len(records))
	for _, rec := range records {
		animal, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, animal)
	}
	return out, nil
}

// missOrConflict explains an UPDATE that matched no rows.
func missOrConflict(ctx context.Context, db *gorm.DB, model any, id string, notFound error) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return mapError(err)
	}
	if count == 0 {
		return notFound
	}
	return ports.ErrVersionConflict
}

func (s *AnimalStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	return nil
}

// RequestStore persists adoption requests in PostgreSQL.
type RequestStore struct {
	db  *gorm.DB
	now func() time.Time
}

func (s *RequestStore) Create(ctx context.Context, req *domain.AdoptionRequest) (*domain.AdoptionRequest, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	rec := toRequestRecord(req)
	rec.Version = 1
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, mapError(err)
	}
	return rec.toDomain()
}

func (s *RequestStore) Get(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec requestRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrRequestNotFound
		}
		return nil, mapError(err)
	}
	return rec.toDomain()
}

func (s *RequestStore) CompareAndSwap(ctx context.Context, req *domain.AdoptionRequest, expectedVersion int64) (*domain.AdoptionRequest, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	history, err := historyJSON(req.History)
	if err != nil {
		return nil, err
	}
	updatedAt := s.now()
	res := s.db.WithContext(ctx).Exec(
		`UPDATE adoption_requests SET status = ?, decided_at = ?, decided_by = ?, history = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
		string(req.Status), req.DecidedAt, req.DecidedBy, history, updatedAt, req.ID, expectedVersion,
	)
	if res.Error != nil {
		return nil, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, missOrConflict(ctx, s.db, &requestRecord{}, req.ID, ports.ErrRequestNotFound)
	}
	next := req.Clone()
	next.Version = expectedVersion + 1
	next.UpdatedAt = updatedAt
	return next, nil
}

func (s *RequestStore) ListByAnimal(ctx context.Context, animalID string) ([]*domain.AdoptionRequest, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []requestRecord
	if err := s.db.WithContext(ctx).
		Where("animal_id = ?", animalID).
		Order("submitted_at, id").
		Find(&records).Error; err != nil {
		return nil, mapError(err)
	}
	return toRequests(records)
}

func (s *RequestStore) List(ctx context.Context, filter ports.RequestFilter) ([]*domain.AdoptionRequest, int, error) {
	if err := s.ensureDB(); err != nil {
		return nil, 0, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		if len(filter.Statuses) > 0 {
			statuses := make([]string, len(filter.Statuses))
			for i, status := range filter.Statuses {
				statuses[i] = string(status)
			}
			tx = tx.Where("status = ANY(?)", pq.Array(statuses))
		}
		if filter.AnimalID != "" {
			tx = tx.Where("animal_id = ?", filter.AnimalID)
		}
		return tx
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&requestRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}
	query := s.db.WithContext(ctx).Scopes(scope).Order("submitted_at, id").Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var records []requestRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, mapError(err)
	}
	out, err := toRequests(records)
	if err != nil {
		return nil, 0, err
	}
	return out, int(total), nil
}

func (s *RequestStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	return nil
}

func toRequests(records []requestRecord) ([]*domain.AdoptionRequest, error) {
	out := make([]*domain.AdoptionRequest, 0, len(records))
	for _, rec := range records {
		req, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// IdempotencyStore persists idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

// Get loads a record by key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	if err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return toPortRecord(rec), nil
}

// Save inserts the record. A taken key surfaces as ports.ErrDuplicate.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	rec := idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		RequestID:   record.RequestID,
		CreatedAt:   record.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, mapError(err)
	}
	return toPortRecord(rec), nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	return nil
}
