package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

var _ ports.Persistence = (*Persistence)(nil)

// Persistence runs adoption units of work in PostgreSQL transactions. Caller manages DB lifecycle.
type Persistence struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPersistence(db *gorm.DB) *Persistence {
	return &Persistence{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the clock used for updated_at stamps.
func (p *Persistence) WithClock(now func() time.Time) *Persistence {
	if now != nil {
		p.now = now
	}
	return p
}

// Do runs fn inside one transaction. Any error rolls the transaction back.
func (p *Persistence) Do(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	if p == nil || p.db == nil {
		return errNotConfigured
	}
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, p.storesFor(tx))
	})
	return mapError(err)
}

// Stores returns autocommit stores bound to the pool.
func (p *Persistence) Stores() ports.Stores {
	var db *gorm.DB
	if p != nil {
		db = p.db
	}
	return p.storesFor(db)
}

func (p *Persistence) storesFor(db *gorm.DB) ports.Stores {
	now := func() time.Time { return time.Now().UTC() }
	if p != nil && p.now != nil {
		now = p.now
	}
	return ports.Stores{
		Animals:         &AnimalStore{db: db, now: now},
		Requests:        &RequestStore{db: db, now: now},
		IdempotencyKeys: &IdempotencyStore{db: db},
	}
}
