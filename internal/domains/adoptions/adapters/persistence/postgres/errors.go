package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// mapError translates driver failures into port errors. Errors it does not recognise pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", ports.ErrVersionConflict, pgErr.Message)
		case codeUniqueViolation:
			if pgErr.ConstraintName == OneApprovedIndex {
				return domain.ErrAnimalNoLongerAvailable
			}
			return fmt.Errorf("%w: %s", ports.ErrDuplicate, pgErr.ConstraintName)
		}
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ports.ErrDuplicate, err)
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", ports.ErrStorageUnavailable, err)
	}
	return err
}
