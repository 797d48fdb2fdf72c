package trade

import (
	"context"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

// Document is the single model behind all four trade document kinds.
// The Kind field decides the financial sign, the stock direction and
// the party role; everything else is shared.
type Document struct {
	entity.Document

	Kind Kind `db:"kind" json:"kind"`

	// Trading partner (customer or supplier depending on kind)
	PartyID id.ID `db:"party_id" json:"partyId"`

	// Store affected by stock movements
	StoreID id.ID `db:"store_id" json:"storeId"`

	// Totals (calculated from lines, persisted for reporting)
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Discount types.Money `db:"discount" json:"discount"`
	TaxTotal types.Money `db:"tax_total" json:"taxTotal"`
	Net      types.Money `db:"net" json:"net"`

	Settlement Settlement `db:"-" json:"settlement"`

	// Override skips the stock sufficiency check on posting
	StockOverride bool `db:"stock_override" json:"stockOverride,omitempty"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line is one row of a trade document's table part.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID    id.ID          `db:"item_id" json:"itemId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// Calculated amounts
	TaxAmount types.Money `db:"tax_amount" json:"taxAmount"`
	NetAmount types.Money `db:"net_amount" json:"netAmount"`
}

// New creates a new trade document of the given kind.
func New(tenantID, branchID id.ID, kind Kind) *Document {
	return &Document{
		Document: entity.NewDocument(tenantID, branchID),
		Kind:     kind,
		Subtotal: types.Zero(),
		Discount: types.Zero(),
		TaxTotal: types.Zero(),
		Net:      types.Zero(),
		Lines:    make([]Line, 0),
	}
}

// AddLine appends a line to the table part. Amounts are filled in by
// the totals calculator, not here.
func (d *Document) AddLine(itemID id.ID, quantity types.Quantity, unitPrice types.Money) {
	d.Lines = append(d.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(d.Lines) + 1,
		ItemID:    itemID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if _, err := ParseKind(string(d.Kind)); err != nil {
		return err
	}

	if d.Discount.IsNegative() {
		return apperror.NewValidation("discount must not be negative").
			WithDetail("field", "discount")
	}

	if len(d.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range d.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	if err := d.Settlement.Validate(ctx, d.Net); err != nil {
		return err
	}

	if d.Settlement.IsCredit() && d.Settlement.PartyID != d.PartyID {
		return apperror.NewValidation("credit settlement party must match the document party").
			WithDetail("field", "settlement.partyId")
	}

	return nil
}

// HasStockLines reports whether any line moves stock. Service items
// produce no movements; the orchestrator resolves item types before
// calling this through stockLines.
func (d *Document) HasStockLines(stocked map[id.ID]bool) bool {
	for _, line := range d.Lines {
		if stocked[line.ItemID] {
			return true
		}
	}
	return false
}

// StockLines returns the subset of lines whose items are stock-tracked.
func (d *Document) StockLines(stocked map[id.ID]bool) []Line {
	out := make([]Line, 0, len(d.Lines))
	for _, line := range d.Lines {
		if stocked[line.ItemID] {
			out = append(out, line)
		}
	}
	return out
}

// Movements builds the stock register movements this document produces
// at the given effect version. Only stock-tracked lines participate.
func (d *Document) Movements(stocked map[id.ID]bool, version int) []entity.StockMovement {
	direction := d.Kind.StockDirection()
	movements := make([]entity.StockMovement, 0, len(d.Lines))

	for _, line := range d.StockLines(stocked) {
		movements = append(movements, entity.NewStockMovement(
			d.TenantID,
			d.ID,
			string(d.Kind),
			version,
			d.Date,
			direction,
			d.StoreID,
			line.ItemID,
			line.Quantity,
		))
	}
	return movements
}

var _ entity.Validatable = (*Document)(nil)
