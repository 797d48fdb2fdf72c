package stock

import (
	"context"
	"fmt"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
	"daftar/internal/domain/trade"
	"daftar/pkg/logger"
)

// Service provides operations on the stock register. It implements the
// posting orchestrator's StockRegister port; transactions are managed
// by the caller.
type Service struct {
	repo Repository
}

// NewService creates a stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record inserts stock movements produced by a document posting.
func (s *Service) Record(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Debug(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)
	return nil
}

// Reverse removes a document's movements below the given effect version.
func (s *Service) Reverse(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID, beforeVersion); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Debug(ctx, "reversed stock movements",
		"recorder_id", recorderID,
		"before_version", beforeVersion,
	)
	return nil
}

// CheckAvailability validates stock sufficiency with pessimistic
// locking. Must run inside the posting transaction, before the expense
// movements are created; the locks hold until commit.
func (s *Service) CheckAvailability(ctx context.Context, storeID id.ID, demands []trade.ItemDemand) error {
	for _, d := range demands {
		balance, err := s.repo.GetBalanceForUpdate(ctx, storeID, d.ItemID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", d.ItemID, err)
		}

		if balance.Quantity < d.Quantity {
			return apperror.NewInsufficientStock(
				d.ItemID.String(),
				d.Quantity.Float64(),
				balance.Quantity.Float64(),
			)
		}
	}
	return nil
}

// EnsureNonNegative verifies, under row locks, that none of the given
// balances has gone below zero. Used after reversing receipt movements.
func (s *Service) EnsureNonNegative(ctx context.Context, storeID id.ID, itemIDs []id.ID) error {
	for _, itemID := range itemIDs {
		balance, err := s.repo.GetBalanceForUpdate(ctx, storeID, itemID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", itemID, err)
		}
		if balance.Quantity.IsNegative() {
			return apperror.NewInsufficientStock(itemID.String(), 0, balance.Quantity.Float64())
		}
	}
	return nil
}

// GetItemAvailability returns the available quantity across all stores.
func (s *Service) GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Quantity
	}
	return total, nil
}

// GetStoreStock returns all items with non-zero stock in a store.
func (s *Service) GetStoreStock(ctx context.Context, storeID id.ID) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByStore(ctx, storeID, BalanceFilter{ExcludeZero: true})
}

// GetMovementHistory returns an item's movement history.
func (s *Service) GetMovementHistory(ctx context.Context, itemID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, itemID, filter)
}

var _ trade.StockRegister = (*Service)(nil)
