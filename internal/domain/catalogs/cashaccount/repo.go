package cashaccount

import (
	"context"

	"daftar/internal/core/id"
	"daftar/internal/core/types"
	"daftar/internal/domain"
)

// Repository defines storage operations for cash accounts.
type Repository interface {
	domain.CatalogRepository[*Account]

	// AdjustBalance atomically adds delta to the account balance.
	AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error

	// GetBalanceForUpdate reads the balance under a row lock.
	GetBalanceForUpdate(ctx context.Context, accountID id.ID) (types.Money, error)

	// FindSafeByBranch returns the active safe for a branch.
	FindSafeByBranch(ctx context.Context, branchID id.ID) (*Account, error)
}
