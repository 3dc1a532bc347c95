package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/staff/ports"
)

// StaticGate authorizes a fixed set of opaque tokens.
type StaticGate struct {
	mu     sync.RWMutex
	tokens map[string]domain.Identity
}

func NewStaticGate() *StaticGate {
	return &StaticGate{tokens: make(map[string]domain.Identity)}
}

// Register maps a token to an identity, replacing any earlier mapping.
func (g *StaticGate) Register(token string, identity domain.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens[token] = identity
}

func (g *StaticGate) Authorize(_ context.Context, token string) (domain.Identity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	identity, ok := g.tokens[token]
	if !ok || token == "" {
		return domain.Identity{}, fmt.Errorf("%w: unknown token", domain.ErrUnauthorized)
	}
	return identity, nil
}

// ParseStaticTokens reads entries of the form token=staffId:role|role separated by commas.
func ParseStaticTokens(raw string) (*StaticGate, error) {
	gate := NewStaticGate()
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, subject, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(token) == "" {
			return nil, fmt.Errorf("static token entry %q: expected token=staffId:roles", entry)
		}
		staffID, rawRoles, _ := strings.Cut(subject, ":")
		var roles []domain.Role
		for _, rawRole := range strings.Split(rawRoles, "|") {
			if strings.TrimSpace(rawRole) == "" {
				continue
			}
			role, err := domain.ParseRole(rawRole)
			if err != nil {
				return nil, fmt.Errorf("static token entry %q: %w", entry, err)
			}
			roles = append(roles, role)
		}
		identity, err := domain.NewIdentity(staffID, "", roles)
		if err != nil {
			return nil, fmt.Errorf("static token entry %q: %w", entry, err)
		}
		gate.Register(strings.TrimSpace(token), identity)
	}
	return gate, nil
}

var _ ports.AuthGate = (*StaticGate)(nil)
