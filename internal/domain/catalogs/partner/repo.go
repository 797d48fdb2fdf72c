package partner

import (
	"context"

	"daftar/internal/core/id"
	"daftar/internal/core/types"
	"daftar/internal/domain"
)

// Repository defines storage operations for partners.
type Repository interface {
	domain.CatalogRepository[*Partner]

	// AdjustBalance atomically adds delta to the partner balance
	// (UPDATE ... SET current_balance = current_balance + delta).
	AdjustBalance(ctx context.Context, partnerID id.ID, delta types.Money) error

	// GetBalanceForUpdate reads the balance under a row lock.
	GetBalanceForUpdate(ctx context.Context, partnerID id.ID) (types.Money, error)
}
