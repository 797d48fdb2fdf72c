package cashaccount

import (
	"context"
	"fmt"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/tx"
	"daftar/internal/core/types"
	"daftar/internal/domain"
	"daftar/internal/domain/trade"
	"daftar/pkg/numerator"
)

// Service provides business logic for cash accounts and serves as the
// posting engine's cash account balance port.
type Service struct {
	*domain.CatalogService[*Account]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new cash account service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Account]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "cash account",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, a *Account) error {
	if a.Code == "" {
		tenantID, err := tenant.GetTenantID(ctx)
		if err != nil {
			return apperror.NewInternal(err)
		}
		code, err := s.numerator.NextCode(ctx, tenantID, numerator.DefaultConfig("ACC"),
			&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		a.Code = code
	}

	// One active safe per branch.
	if a.IsSafe() {
		if existing, err := s.repo.FindSafeByBranch(ctx, a.BranchID); err == nil && existing.ID != a.ID {
			return apperror.NewConflict("branch already has an active safe").
				WithDetail("branchId", a.BranchID.String()).
				WithDetail("safeId", existing.ID.String())
		}
	}
	return nil
}

// GetBalanceForUpdate reads an account balance under a row lock.
// Implements the posting engine's cash account port.
func (s *Service) GetBalanceForUpdate(ctx context.Context, accountID id.ID) (types.Money, error) {
	balance, err := s.repo.GetBalanceForUpdate(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return types.Zero(), apperror.NewNotFound("cash account", accountID.String())
		}
		return types.Zero(), err
	}
	return balance, nil
}

// AdjustBalance atomically shifts an account balance. Runs inside the
// posting transaction.
func (s *Service) AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error {
	if delta.IsZero() {
		return nil
	}
	if err := s.repo.AdjustBalance(ctx, accountID, delta); err != nil {
		return fmt.Errorf("adjust account balance: %w", err)
	}
	return nil
}

// FindSafeByBranch resolves the active safe for a branch.
func (s *Service) FindSafeByBranch(ctx context.Context, branchID id.ID) (*Account, error) {
	return s.repo.FindSafeByBranch(ctx, branchID)
}

// SafeIDForBranch resolves the active safe id for a branch, skipping
// accounts marked for deletion.
func (s *Service) SafeIDForBranch(ctx context.Context, branchID id.ID) (id.ID, error) {
	account, err := s.repo.FindSafeByBranch(ctx, branchID)
	if err != nil {
		return id.Nil(), err
	}
	if account.DeletionMark {
		return id.Nil(), apperror.NewValidation("the branch safe is marked for deletion").
			WithDetail("branchId", branchID.String())
	}
	return account.ID, nil
}

var _ trade.CashAccounts = (*Service)(nil)
var _ trade.SafeResolver = (*Service)(nil)
