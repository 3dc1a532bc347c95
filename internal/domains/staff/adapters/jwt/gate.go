package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/staff/ports"
)

// Claims carries the staff identity inside an HS256 token.
type Claims struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles"`
	gojwt.RegisteredClaims
}

// Gate validates staff bearer tokens signed with a shared secret.
type Gate struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

type Option func(*Gate)

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithClock overrides the clock used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate builds a gate. An empty issuer disables the issuer check.
func NewGate(signingKey, issuer string, opts ...Option) (*Gate, error) {
	if strings.TrimSpace(signingKey) == "" {
		return nil, errors.New("jwt signing key is empty")
	}
	g := &Gate{
		signingKey: []byte(signingKey),
		issuer:     strings.TrimSpace(issuer),
		ttl:        8 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Authorize parses the token and returns the staff identity it carries.
func (g *Gate) Authorize(_ context.Context, token string) (domain.Identity, error) {
	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(g.now),
	}
	if g.issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(g.issuer))
	}
	parsed, err := gojwt.ParseWithClaims(token, &Claims{}, func(*gojwt.Token) (interface{}, error) {
		return g.signingKey, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("%w: token has expired", domain.ErrUnauthorized)
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, raw := range claims.Roles {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		roles = append(roles, role)
	}
	identity, err := domain.NewIdentity(claims.Subject, claims.Name, roles)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return identity, nil
}

// Issue signs a token for the identity. Used by tooling and tests.
func (g *Gate) Issue(identity domain.Identity) (string, error) {
	now := g.now()
	roles := make([]string, len(identity.Roles))
	for i, role := range identity.Roles {
		roles[i] = string(role)
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		Name:  identity.Name,
		Roles: roles,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   identity.StaffID,
			Issuer:    g.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(g.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(g.signingKey)
}

var _ ports.AuthGate = (*Gate)(nil)
