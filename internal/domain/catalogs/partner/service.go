package partner

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

// Service provides business logic for the partner catalog and serves
// as the posting engine's partner balance port.
type Service struct {
	*domain.CatalogService[*Partner]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new partner service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Partner]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "partner",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, p *Partner) error {
	if p.Code == "" {
		tenantID, err := tenant.GetTenantID(ctx)
		if err != nil {
			return apperror.NewInternal(err)
		}
		code, err := s.numerator.NextCode(ctx, tenantID, numerator.DefaultConfig("PTN"),
			&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}
	return nil
}

// AdjustBalance atomically shifts the partner's settlement balance.
// Implements the posting engine's partner port; runs inside the
// posting transaction.
func (s *Service) AdjustBalance(ctx context.Context, partnerID id.ID, delta types.Money) error {
	if delta.IsZero() {
		return nil
	}
	if err := s.repo.AdjustBalance(ctx, partnerID, delta); err != nil {
		return fmt.Errorf("adjust partner balance: %w", err)
	}
	return nil
}

// GetBalance returns the partner's current settlement balance.
func (s *Service) GetBalance(ctx context.Context, partnerID id.ID) (types.Money, error) {
	p, err := s.GetByID(ctx, partnerID)
	if err != nil {
		return types.Zero(), err
	}
	return p.CurrentBalance, nil
}

var _ trade.Partners = (*Service)(nil)
