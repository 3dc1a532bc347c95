package ports

import (
	"context"
	"errors"
	"time"
)

var ErrIdempotencyConflict = errors.New("idempotency key reused with a different payload")

// IdempotencyRecord ties a client supplied key to the request it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	RequestID   string
	CreatedAt   time.Time
}

// IdempotencyStore remembers submissions by key.
type IdempotencyStore interface {
	// Get returns nil, nil when the key is unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save fails with ErrDuplicate when the key is already taken.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
