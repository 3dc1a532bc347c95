package ports

import (
	"context"

	"github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
)

// AuthGate resolves a bearer credential into a staff identity.
// Implementations return an error wrapping domain.ErrUnauthorized when the credential is rejected.
type AuthGate interface {
	Authorize(ctx context.Context, token string) (domain.Identity, error)
}
