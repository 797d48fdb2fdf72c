// Package partner provides the trading partner catalog: customers,
// suppliers, and parties acting as both.
package partner

import (
	"context"

	"github.com/shopspring/decimal"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

// Role defines which side of trade documents a partner may appear on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleBoth     Role = "both"
)

// Partner is a customer or supplier with a running settlement balance.
// A positive CurrentBalance means the partner owes the business, a
// negative one means the business owes the partner.
type Partner struct {
	entity.Catalog

	Role Role `db:"role" json:"role"`

	// CurrentBalance is maintained by the posting engine through
	// atomic increments; never written directly.
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`

	// CreditLimit caps how far a customer balance may grow (0 = no limit)
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`

	Phone   *string `db:"phone" json:"phone,omitempty"`
	Email   *string `db:"email" json:"email,omitempty"`
	TaxID   *string `db:"tax_id" json:"taxId,omitempty"`
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new partner.
func New(tenantID id.ID, code, name string, role Role) *Partner {
	return &Partner{
		Catalog:        entity.NewCatalog(tenantID, code, name),
		Role:           role,
		CurrentBalance: decimal.Zero,
		CreditLimit:    decimal.Zero,
	}
}

// Validate implements entity.Validatable.
func (p *Partner) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch p.Role {
	case RoleCustomer, RoleSupplier, RoleBoth:
	default:
		return apperror.NewValidation("invalid partner role").
			WithDetail("field", "role").
			WithDetail("value", string(p.Role))
	}

	if p.CreditLimit.IsNegative() {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit")
	}

	return nil
}

// CanSell reports whether sales documents may reference the partner.
func (p *Partner) CanSell() bool {
	return p.Role == RoleCustomer || p.Role == RoleBoth
}

// CanBuy reports whether purchase documents may reference the partner.
func (p *Partner) CanBuy() bool {
	return p.Role == RoleSupplier || p.Role == RoleBoth
}
