// Package cashaccount provides the cash account catalog: branch safes
// and tenant bank accounts holding the business's money.
package cashaccount

import (
	"context"

	"github.com/shopspring/decimal"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

// Type distinguishes physical safes from bank accounts.
type Type string

const (
	TypeSafe Type = "safe"
	TypeBank Type = "bank"
)

// Account is a cash account with a running balance. Safes belong to a
// branch; banks are tenant-wide.
type Account struct {
	entity.Catalog

	Type Type `db:"type" json:"type"`

	// BranchID is required for safes, empty for banks
	BranchID id.ID `db:"branch_id" json:"branchId,omitempty"`

	// CurrentBalance is maintained by the posting engine through
	// atomic increments; never written directly. Must never go negative.
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`

	// Bank details (banks only)
	BankName *string `db:"bank_name" json:"bankName,omitempty"`
	IBAN     *string `db:"iban" json:"iban,omitempty"`
}

// NewSafe creates a safe bound to a branch.
func NewSafe(tenantID, branchID id.ID, code, name string) *Account {
	return &Account{
		Catalog:        entity.NewCatalog(tenantID, code, name),
		Type:           TypeSafe,
		BranchID:       branchID,
		CurrentBalance: decimal.Zero,
	}
}

// NewBank creates a tenant-wide bank account.
func NewBank(tenantID id.ID, code, name string) *Account {
	return &Account{
		Catalog:        entity.NewCatalog(tenantID, code, name),
		Type:           TypeBank,
		CurrentBalance: decimal.Zero,
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch a.Type {
	case TypeSafe:
		if id.IsNil(a.BranchID) {
			return apperror.NewValidation("safe requires a branch").
				WithDetail("field", "branchId")
		}
	case TypeBank:
		if !id.IsNil(a.BranchID) {
			return apperror.NewValidation("bank accounts are tenant-wide").
				WithDetail("field", "branchId")
		}
	default:
		return apperror.NewValidation("invalid account type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}

	return nil
}

// IsSafe reports whether the account is a branch safe.
func (a *Account) IsSafe() bool { return a.Type == TypeSafe }
