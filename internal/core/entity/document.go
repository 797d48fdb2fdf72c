package entity

import (
	"context"
	"time"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
)

// Document is the base type for financial documents: sales invoices, sales
// returns, purchase invoices, purchase returns.
//
// There is no draft state. A document's financial and stock effects are
// applied at create time, fully reversed and reapplied on update, and fully
// reversed on delete.
type Document struct {
	BaseDocument

	// Code is the human-readable sequential number (auto-generated at create,
	// unique per tenant per document kind, immutable afterwards)
	Code string `db:"code" json:"code"`

	// Date is the business date of the document (distinct from CreatedAt);
	// must fall in an open fiscal period at every mutation
	Date time.Time `db:"date" json:"date"`

	// BranchID is the owning branch (safes are resolved per branch)
	BranchID id.ID `db:"branch_id" json:"branchId"`

	// EffectVersion tracks effect iterations for movement reconciliation.
	// Incremented each time the document's side effects are applied; stock
	// movements below the current version are stale and get deleted on
	// reversal.
	EffectVersion int `db:"effect_version" json:"effectVersion"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(tenantID, branchID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(tenantID),
		Date:         time.Now().UTC(),
		BranchID:     branchID,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// MarkEffectApplied increments the effect version after side effects land.
func (d *Document) MarkEffectApplied() {
	d.EffectVersion++
}

// IsBackdated checks if document date is in the past.
func (d *Document) IsBackdated() bool {
	return d.Date.Before(time.Now().UTC().Truncate(24 * time.Hour))
}

// GetID returns the document ID.
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetEffectVersion returns the current effect version.
func (d *Document) GetEffectVersion() int {
	return d.EffectVersion
}
