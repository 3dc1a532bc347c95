package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	"github.com/Apurer/adoption-coordinator/internal/shared/pagination"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid adoption input")
	// ErrNotFound signals the referenced animal or request does not exist.
	ErrNotFound = errors.New("adoption resource not found")
	// ErrConflict signals the request lost against the current state of the animal or request.
	ErrConflict = errors.New("adoption conflict")
	// ErrUnavailable signals the backing store could not be reached.
	ErrUnavailable = errors.New("adoption service unavailable")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, domain.ErrInvalidTransition):
		return err
	case errors.Is(err, domain.ErrEmptyAnimalID),
		errors.Is(err, domain.ErrEmptyAnimalName),
		errors.Is(err, domain.ErrEmptyRequestID),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrEmptyProfile),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrMissingActor),
		errors.Is(err, pagination.ErrInvalidPage):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, domain.ErrAnimalNotAvailable),
		errors.Is(err, domain.ErrAnimalNoLongerAvailable),
		errors.Is(err, ports.ErrVersionConflict),
		errors.Is(err, ports.ErrDuplicate),
		errors.Is(err, ports.ErrIdempotencyConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, ports.ErrStorageUnavailable):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// StaleVersionError reports a caller supplied version that no longer matches the stored one.
type StaleVersionError struct {
	Expected int64
	Actual   int64
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("%s: expected version %d, found %d", ports.ErrVersionConflict, e.Expected, e.Actual)
}

func (e *StaleVersionError) Unwrap() error {
	return ports.ErrVersionConflict
}
