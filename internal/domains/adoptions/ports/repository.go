package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAnimalNotFound     = fmt.Errorf("animal %w", ErrNotFound)
	ErrRequestNotFound    = fmt.Errorf("adoption request %w", ErrNotFound)
	ErrVersionConflict    = errors.New("record version changed concurrently")
	ErrDuplicate          = errors.New("record already exists")
	ErrStorageUnavailable = errors.New("adoption storage unavailable")
)

// AnimalStore persists animals with optimistic version checks.
type AnimalStore interface {
	Create(ctx context.Context, animal *domain.Animal) (*domain.Animal, error)
	Get(ctx context.Context, id string) (*domain.Animal, error)
	// CompareAndSwap writes animal only if the stored version still equals expectedVersion.
	CompareAndSwap(ctx context.Context, animal *domain.Animal, expectedVersion int64) (*domain.Animal, error)
	// RequireVersion fails the enclosing unit of work unless the animal stays at version until commit.
	RequireVersion(ctx context.Context, id string, version int64) error
	List(ctx context.Context) ([]*domain.Animal, error)
}

// RequestFilter narrows request listings. Empty fields match everything.
type RequestFilter struct {
	Statuses []domain.Status
	AnimalID string
	Offset   int
	Limit    int
}

// AdoptionRequestStore persists adoption requests with optimistic version checks.
type AdoptionRequestStore interface {
	Create(ctx context.Context, req *domain.AdoptionRequest) (*domain.AdoptionRequest, error)
	Get(ctx context.Context, id string) (*domain.AdoptionRequest, error)
	CompareAndSwap(ctx context.Context, req *domain.AdoptionRequest, expectedVersion int64) (*domain.AdoptionRequest, error)
	// ListByAnimal returns every request for the animal, oldest first.
	ListByAnimal(ctx context.Context, animalID string) ([]*domain.AdoptionRequest, error)
	// List returns one page of matching requests plus the total match count.
	List(ctx context.Context, filter RequestFilter) ([]*domain.AdoptionRequest, int, error)
}

// Stores groups the stores visible to one unit of work.
type Stores struct {
	Animals         AnimalStore
	Requests        AdoptionRequestStore
	IdempotencyKeys IdempotencyStore
}

// UnitOfWork runs fn atomically. Writes staged through the given stores commit together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// Persistence is a backend offering transactional and autocommit access.
type Persistence interface {
	UnitOfWork
	Stores() Stores
}
