package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityPermissions(t *testing.T) {
	reviewer, err := NewIdentity("staff-1", "Robin", []Role{RoleReviewer})
	require.NoError(t, err)
	require.NoError(t, reviewer.Authorize(PermissionReview))
	require.ErrorIs(t, reviewer.Authorize(PermissionDecide), ErrForbidden)

	admin, err := NewIdentity("staff-2", "Alex", []Role{RoleAdmin})
	require.NoError(t, err)
	for _, p := range []Permission{PermissionReadAdoptions, PermissionReview, PermissionDecide, PermissionManageAnimals} {
		require.NoError(t, admin.Authorize(p))
	}

	require.ErrorIs(t, Identity{}.Authorize(PermissionReadAdoptions), ErrUnauthorized)
}

func TestNewIdentityValidation(t *testing.T) {
	_, err := NewIdentity(" ", "", nil)
	require.ErrorIs(t, err, ErrEmptyStaffID)

	_, err = NewIdentity("staff-1", "", []Role{"janitor"})
	require.ErrorIs(t, err, ErrUnknownRole)

	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)
}
