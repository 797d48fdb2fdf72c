// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"daftar/internal/core/apperror"
	appctx "daftar/internal/core/context"
)

// Role names recognized by route guards. Admins pass every check.
const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleViewer     = "viewer"
)

// RequireRole middleware checks that the actor holds at least one of
// the given roles. Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := appctx.GetActor(c.Request.Context())
		if actor == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, role := range actor.Roles {
			if role == RoleAdmin {
				c.Next()
				return
			}
			for _, required := range roles {
				if role == required {
					c.Next()
					return
				}
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

// RequireRead guards read-only endpoints.
func RequireRead() gin.HandlerFunc {
	return RequireRole(RoleAccountant, RoleViewer)
}

// RequireWrite guards mutating endpoints.
func RequireWrite() gin.HandlerFunc {
	return RequireRole(RoleAccountant)
}

// RequireAdmin guards administrative endpoints (period management,
// balance recalculation).
func RequireAdmin() gin.HandlerFunc {
	return RequireRole()
}
