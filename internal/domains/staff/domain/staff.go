package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Role groups permissions granted to a staff member.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleReviewer Role = "reviewer"
)

// Permission names one guarded action.
type Permission string

const (
	PermissionReadAdoptions Permission = "adoptions:read"
	PermissionReview        Permission = "adoptions:review"
	PermissionDecide        Permission = "adoptions:decide"
	PermissionManageAnimals Permission = "animals:manage"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin:    {PermissionReadAdoptions, PermissionReview, PermissionDecide, PermissionManageAnimals},
	RoleReviewer: {PermissionReadAdoptions, PermissionReview},
}

var (
	ErrUnauthorized = errors.New("staff credentials are missing or invalid")
	ErrForbidden    = errors.New("staff member lacks permission")
	ErrEmptyStaffID = errors.New("staff id is required")
	ErrUnknownRole  = errors.New("unknown staff role")
)

// ParseRole validates a role name.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := rolePermissions[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// Identity is an authenticated staff member.
type Identity struct {
	StaffID string
	Name    string
	Roles   []Role
}

// NewIdentity validates and builds an identity.
func NewIdentity(staffID, name string, roles []Role) (Identity, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return Identity{}, ErrEmptyStaffID
	}
	for _, role := range roles {
		if _, ok := rolePermissions[role]; !ok {
			return Identity{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
		}
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return Identity{StaffID: staffID, Name: strings.TrimSpace(name), Roles: out}, nil
}

func (i Identity) Authenticated() bool {
	return i.StaffID != ""
}

// Has reports whether any of the identity's roles grants the permission.
func (i Identity) Has(p Permission) bool {
	for _, role := range i.Roles {
		for _, granted := range rolePermissions[role] {
			if granted == p {
				return true
			}
		}
	}
	return false
}

// Authorize returns ErrUnauthorized for anonymous identities and ErrForbidden when p is not granted.
func (i Identity) Authorize(p Permission) error {
	if !i.Authenticated() {
		return ErrUnauthorized
	}
	if !i.Has(p) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, i.StaffID, p)
	}
	return nil
}
