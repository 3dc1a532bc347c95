package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
)

func TestGate_IssueAndAuthorize(t *testing.T) {
	gate, err := NewGate("shelter-secret", "adoption-coordinator")
	require.NoError(t, err)

	identity, err := domain.NewIdentity("staff-7", "Robin", []domain.Role{domain.RoleReviewer})
	require.NoError(t, err)

	token, err := gate.Issue(identity)
	require.NoError(t, err)

	resolved, err := gate.Authorize(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, identity, resolved)
}

func TestGate_RejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	issuer, err := NewGate("shelter-secret", "", WithTTL(time.Minute), WithClock(func() time.Time { return issuedAt }))
	require.NoError(t, err)
	identity, err := domain.NewIdentity("staff-7", "", []domain.Role{domain.RoleAdmin})
	require.NoError(t, err)
	token, err := issuer.Issue(identity)
	require.NoError(t, err)

	later, err := NewGate("shelter-secret", "", WithClock(func() time.Time { return issuedAt.Add(time.Hour) }))
	require.NoError(t, err)
	_, err = later.Authorize(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGate_RejectsForeignSignatureAndIssuer(t *testing.T) {
	identity, err := domain.NewIdentity("staff-7", "", []domain.Role{domain.RoleAdmin})
	require.NoError(t, err)

	other, err := NewGate("other-secret", "adoption-coordinator")
	require.NoError(t, err)
	token, err := other.Issue(identity)
	require.NoError(t, err)

	gate, err := NewGate("shelter-secret", "adoption-coordinator")
	require.NoError(t, err)
	_, err = gate.Authorize(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	wrongIssuer, err := NewGate("shelter-secret", "someone-else")
	require.NoError(t, err)
	token, err = wrongIssuer.Issue(identity)
	require.NoError(t, err)
	_, err = gate.Authorize(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = gate.Authorize(context.Background(), "not-a-token")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewGate_RequiresKey(t *testing.T) {
	_, err := NewGate(" ", "")
	require.Error(t, err)
}
