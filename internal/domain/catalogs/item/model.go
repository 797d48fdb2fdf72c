// Package item provides the item catalog: goods tracked in stock and
// services that are billed without stock movements.
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

// Type defines how an item participates in documents.
type Type string

const (
	// TypeStocked items move stock on every trade document.
	TypeStocked Type = "stocked"
	// TypeService items carry only a financial effect.
	TypeService Type = "service"
)

// Item is a sellable or purchasable catalog entry.
type Item struct {
	entity.Catalog

	Type Type `db:"type" json:"type"`

	// SKU is an optional stock keeping unit (unique within tenant)
	SKU *string `db:"sku" json:"sku,omitempty"`

	// Barcode for scanner lookups
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Unit is the unit of measure label ("pcs", "kg")
	Unit string `db:"unit" json:"unit"`

	// Default prices used to prefill document lines
	SalePrice     types.Money `db:"sale_price" json:"salePrice"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// MinStock triggers low-stock warnings for stocked items
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new item.
func New(tenantID id.ID, code, name string, itemType Type) *Item {
	return &Item{
		Catalog:       entity.NewCatalog(tenantID, code, name),
		Type:          itemType,
		Unit:          "pcs",
		SalePrice:     decimal.Zero,
		PurchasePrice: decimal.Zero,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch i.Type {
	case TypeStocked, TypeService:
	default:
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if i.SalePrice.IsNegative() || i.PurchasePrice.IsNegative() {
		return apperror.NewValidation("prices cannot be negative").
			WithDetail("field", "salePrice")
	}

	if i.Type == TypeService && !i.MinStock.IsZero() {
		return apperror.NewValidation("services cannot have a minimum stock").
			WithDetail("field", "minStock")
	}

	return nil
}

// IsStocked reports whether the item moves stock.
func (i *Item) IsStocked() bool {
	return i.Type == TypeStocked
}
