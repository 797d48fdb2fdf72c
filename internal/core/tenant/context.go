// Package tenant provides tenant scoping for the shared-database deployment.
// Every repository filters rows on the tenant carried in context.
package tenant

import (
	"context"
	"errors"

	"daftar/internal/core/id"
)

// Tenant identifies one customer account.
type Tenant struct {
	ID   id.ID
	Name string
}

type ctxKey int

const tenantKey ctxKey = iota

// ErrNoTenantInContext is returned when tenant scope is missing.
var ErrNoTenantInContext = errors.New("tenant not found in context")

// WithTenant stores tenant info in context.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// GetTenant retrieves tenant from context.
func GetTenant(ctx context.Context) *Tenant {
	t, _ := ctx.Value(tenantKey).(*Tenant)
	return t
}

// GetTenantID returns tenant ID from context.
func GetTenantID(ctx context.Context) (id.ID, error) {
	if t := GetTenant(ctx); t != nil && !id.IsNil(t.ID) {
		return t.ID, nil
	}
	return id.Nil(), ErrNoTenantInContext
}

// MustGetTenantID returns tenant ID or panics.
// Use in places where missing tenant is a programming error (repositories
// are only reachable through the tenant middleware).
func MustGetTenantID(ctx context.Context) id.ID {
	tid, err := GetTenantID(ctx)
	if err != nil {
		panic("tenant not in context: " + err.Error())
	}
	return tid
}
