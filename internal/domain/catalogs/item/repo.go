package item

import (
	"context"

	"daftar/internal/core/id"
	"daftar/internal/domain"
)

// Repository defines storage operations for items.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetByIDs retrieves items by IDs in one query.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Item, error)

	// FindBySKU retrieves an item by SKU.
	FindBySKU(ctx context.Context, sku string) (*Item, error)

	// FindByBarcode retrieves an item by barcode.
	FindByBarcode(ctx context.Context, barcode string) (*Item, error)
}
