package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"daftar/internal/core/apperror"
	appctx "daftar/internal/core/context"
	"daftar/internal/core/id"
	"daftar/internal/core/security"
	"daftar/internal/core/tenant"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*security.Identity, error)
}

// Auth middleware validates the bearer token and populates the actor
// in request context. Must run after TenantScope so the token's tenant
// claim can be checked against the resolved tenant.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		identity, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		// The tenant claim must match the tenant resolved from the
		// X-Tenant-ID header; a token is only valid inside its tenant.
		if resolved, terr := tenant.GetTenantID(c.Request.Context()); terr == nil && !id.IsNil(identity.TenantID) {
			if resolved != identity.TenantID {
				_ = c.Error(
					apperror.NewForbidden("tenant mismatch").
						WithDetail("header_tenant_id", resolved.String()).
						WithDetail("token_tenant_id", identity.TenantID.String()),
				)
				c.Abort()
				return
			}
		}

		actor := &appctx.Actor{
			UserID: identity.UserID,
			Email:  identity.Email,
			Roles:  identity.Roles,
		}
		ctx := appctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)

		// Kept in gin context for handlers that use c.Get().
		c.Set("user_id", identity.UserID)

		c.Next()
	}
}

// OptionalAuth validates a token if present, but does not require one.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Next()
			return
		}

		identity, err := validator.ValidateToken(parts[1])
		if err == nil && identity != nil {
			// Ignore tokens that belong to another tenant.
			if resolved, terr := tenant.GetTenantID(c.Request.Context()); terr == nil &&
				!id.IsNil(identity.TenantID) && resolved != identity.TenantID {
				c.Next()
				return
			}

			actor := &appctx.Actor{
				UserID: identity.UserID,
				Email:  identity.Email,
				Roles:  identity.Roles,
			}
			ctx := appctx.WithActor(c.Request.Context(), actor)
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", identity.UserID)
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
