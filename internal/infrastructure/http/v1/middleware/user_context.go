package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "daftar/internal/core/context"
)

const (
	HeaderDevUserID = "X-User-ID"
	HeaderDevRoles  = "X-User-Roles"
)

// DevActor populates the actor from plain headers instead of a token.
// Only wired when authentication is disabled in configuration; never
// use in production.
func DevActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderDevUserID)
		if userID == "" {
			userID = "dev"
		}

		roles := []string{RoleAdmin}
		if raw := c.GetHeader(HeaderDevRoles); raw != "" {
			roles = roles[:0]
			for _, r := range strings.Split(raw, ",") {
				if r = strings.TrimSpace(r); r != "" {
					roles = append(roles, r)
				}
			}
		}

		actor := &appctx.Actor{UserID: userID, Roles: roles}
		ctx := appctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", userID)

		c.Next()
	}
}
