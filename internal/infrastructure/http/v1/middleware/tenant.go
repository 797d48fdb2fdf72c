package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
)

// TenantHeader is the HTTP header for tenant identification.
const TenantHeader = "X-Tenant-ID"

// TenantResolver checks that the tenant exists and is allowed to use
// the service. A nil resolver trusts the header (suitable behind a
// gateway that already validates tenants).
type TenantResolver interface {
	Resolve(ctx context.Context, tenantID id.ID) (*tenant.Tenant, error)
}

// TenantScope middleware resolves the tenant from the X-Tenant-ID
// header and stores it in request context. All rows share one database;
// repositories filter on the tenant carried here, so this middleware
// MUST run before anything that touches storage.
func TenantScope(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rawTenantID := c.GetHeader(TenantHeader)
		if rawTenantID == "" {
			_ = c.Error(
				apperror.NewValidation("tenant is required").
					WithDetail("header", TenantHeader),
			)
			c.Abort()
			return
		}

		tenantUUID, err := uuid.Parse(rawTenantID)
		if err != nil {
			_ = c.Error(
				apperror.NewValidation("invalid tenant id").
					WithDetail("header", TenantHeader).
					WithDetail("value", rawTenantID),
			)
			c.Abort()
			return
		}

		t := &tenant.Tenant{ID: tenantUUID}
		if resolver != nil {
			resolved, err := resolver.Resolve(ctx, tenantUUID)
			if err != nil {
				if appErr, ok := apperror.AsAppError(err); ok {
					_ = c.Error(appErr)
				} else {
					_ = c.Error(apperror.NewInternal(err).WithDetail("tenant_id", tenantUUID.String()))
				}
				c.Abort()
				return
			}
			t = resolved
		}

		ctx = tenant.WithTenant(ctx, t)
		c.Request = c.Request.WithContext(ctx)

		// Also set in gin context for handlers that use c.Get().
		c.Set("tenant_id", t.ID.String())

		c.Next()
	}
}
