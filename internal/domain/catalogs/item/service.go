package item

import (
	"context"
	"fmt"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/tx"
	"daftar/internal/domain"
	"daftar/internal/domain/trade"
	"daftar/pkg/numerator"
)

// Service provides business logic for the item catalog. It also acts
// as the posting orchestrator's item resolver.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new item service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.checkUniqueness)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		tenantID, err := tenant.GetTenantID(ctx)
		if err != nil {
			return apperror.NewInternal(err)
		}
		code, err := s.numerator.NextCode(ctx, tenantID, numerator.DefaultConfig("ITM"),
			&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}
	return s.checkUniqueness(ctx, it)
}

func (s *Service) checkUniqueness(ctx context.Context, it *Item) error {
	if it.SKU != nil && *it.SKU != "" {
		if existing, err := s.repo.FindBySKU(ctx, *it.SKU); err == nil && existing.ID != it.ID {
			return apperror.NewConflict("item with this SKU already exists").
				WithDetail("sku", *it.SKU)
		}
	}
	if it.Barcode != nil && *it.Barcode != "" {
		if existing, err := s.repo.FindByBarcode(ctx, *it.Barcode); err == nil && existing.ID != it.ID {
			return apperror.NewConflict("item with this barcode already exists").
				WithDetail("barcode", *it.Barcode)
		}
	}
	return nil
}

// StockedItems resolves which of the given items are stock-tracked.
// Implements the posting orchestrator's item resolver port; any ID
// not present in the catalog fails the whole resolution.
func (s *Service) StockedItems(ctx context.Context, ids []id.ID) (map[id.ID]bool, error) {
	items, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve items: %w", err)
	}

	out := make(map[id.ID]bool, len(items))
	for _, it := range items {
		out[it.ID] = it.IsStocked()
	}
	for _, itemID := range ids {
		if _, ok := out[itemID]; !ok {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
	}
	return out, nil
}

// FindBySKU retrieves an item by SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Item, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// FindByBarcode retrieves an item by barcode.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Item, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

var _ trade.ItemResolver = (*Service)(nil)
