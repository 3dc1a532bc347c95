package application

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

// RetryPolicy bounds how often a unit of work is replayed after losing a race.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialInterval: 25 * time.Millisecond, MaxInterval: 250 * time.Millisecond}
}

func (p RetryPolicy) run(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = p.InitialInterval
	if p.MaxInterval > 0 {
		expBackoff.MaxInterval = p.MaxInterval
	}
	expBackoff.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(attempts-1)), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err == nil || retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func retryable(err error) bool {
	var stale *StaleVersionError
	if errors.As(err, &stale) {
		return false
	}
	return errors.Is(err, ports.ErrVersionConflict) ||
		errors.Is(err, ports.ErrDuplicate) ||
		errors.Is(err, ports.ErrStorageUnavailable)
}
