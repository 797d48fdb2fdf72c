// Package stock provides the stock accumulation register.
package stock

import (
	"context"
	"time"

	"daftar/internal/core/entity"
	"daftar/internal/core/id"
)

// Repository defines storage operations for the stock register.
// CreateMovements and DeleteMovementsByRecorder maintain the balance
// cache in the same transaction as the movement rows.
type Repository interface {
	// CreateMovements batch inserts movements and applies their signed
	// quantities to the balance cache.
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// DeleteMovementsByRecorder removes the recorder's movements below
	// the given effect version and rolls them out of the balance cache.
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error

	// GetMovementsByRecorder retrieves all movements for a document.
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// GetBalance returns the current balance for store+item.
	GetBalance(ctx context.Context, storeID, itemID id.ID) (entity.StockBalance, error)

	// GetBalanceForUpdate returns the balance under a row lock.
	GetBalanceForUpdate(ctx context.Context, storeID, itemID id.ID) (entity.StockBalance, error)

	// GetBalancesByStore returns balances for a store.
	GetBalancesByStore(ctx context.Context, storeID id.ID, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetBalancesByItem returns balances across all stores for an item.
	GetBalancesByItem(ctx context.Context, itemID id.ID) ([]entity.StockBalance, error)

	// GetMovementHistory returns movement history for an item.
	GetMovementHistory(ctx context.Context, itemID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// RecalculateBalances rebuilds the balance cache from movements.
	RecalculateBalances(ctx context.Context, storeID, itemID *id.ID) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ItemIDs     []id.ID
	ExcludeZero bool
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	StoreID    *id.ID
	RecordType *entity.RecordType
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}
