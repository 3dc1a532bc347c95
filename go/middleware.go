package adoptionserver

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	staffports "github.com/Apurer/adoption-coordinator/internal/domains/staff/ports"
)

const identityKey = "adoptions.staff.identity"

// RequireStaff resolves the bearer token into a staff identity or aborts with 401.
func RequireStaff(gate staffports.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || gate == nil {
			abortWithError(c, staffdomain.ErrUnauthorized)
			return
		}
		identity, err := gate.Authorize(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequirePermission aborts with 403 unless the authenticated identity holds p.
func RequirePermission(p staffdomain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := identityFrom(c).Authorize(p); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequestTimeout bounds every request context. Handlers surface an expired deadline as 504.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func identityFrom(c *gin.Context) staffdomain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(staffdomain.Identity); ok {
			return identity
		}
	}
	return staffdomain.Identity{}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortWithError(c *gin.Context, err error) {
	respondServiceError(c, err)
	c.Abort()
}
