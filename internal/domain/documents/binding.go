// Package documents binds the shared trade posting protocol to the
// four concrete document kinds. Each kind package is a thin wrapper
// around a Binding; everything that differs between kinds lives in the
// kind descriptor, not here.
package documents

import (
	"context"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/domain"
	"daftar/internal/domain/catalogs/partner"
	"daftar/internal/domain/trade"
)

// PartnerDirectory resolves trading partners for role checks.
type PartnerDirectory interface {
	GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error)
}

// Binding scopes the trade orchestrator to one document kind. It pins
// the kind on every mutation and refuses to surface documents of other
// kinds, so each kind's HTTP endpoints stay isolated.
type Binding struct {
	kind     trade.Kind
	orch     *trade.Orchestrator
	partners PartnerDirectory
}

// NewBinding creates a kind-scoped document service.
func NewBinding(kind trade.Kind, orch *trade.Orchestrator, partners PartnerDirectory) *Binding {
	return &Binding{kind: kind, orch: orch, partners: partners}
}

// Kind returns the bound document kind.
func (b *Binding) Kind() trade.Kind { return b.kind }

// Create posts a new document of the bound kind.
func (b *Binding) Create(ctx context.Context, doc *trade.Document) error {
	doc.Kind = b.kind
	if err := b.checkParty(ctx, doc.PartyID); err != nil {
		return err
	}
	return b.orch.Create(ctx, doc)
}

// Update replaces a document's content, keeping the bound kind.
func (b *Binding) Update(ctx context.Context, doc *trade.Document) error {
	doc.Kind = b.kind
	if err := b.checkParty(ctx, doc.PartyID); err != nil {
		return err
	}
	return b.orch.Update(ctx, doc)
}

// Delete removes a document of the bound kind and reverses its effects.
func (b *Binding) Delete(ctx context.Context, docID id.ID) error {
	if _, err := b.GetByID(ctx, docID); err != nil {
		return err
	}
	return b.orch.Delete(ctx, docID)
}

// GetByID retrieves a document of the bound kind.
func (b *Binding) GetByID(ctx context.Context, docID id.ID) (*trade.Document, error) {
	doc, err := b.orch.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Kind != b.kind {
		// other kinds are invisible through this binding
		return nil, apperror.NewNotFound(string(b.kind), docID.String())
	}
	return doc, nil
}

// List retrieves documents of the bound kind.
func (b *Binding) List(ctx context.Context, filter domain.DocumentListFilter) (domain.ListResult[*trade.Document], error) {
	return b.orch.List(ctx, b.kind, filter)
}

// checkParty verifies a supplied partner exists, is not marked
// deleted, and plays the role this kind requires. Cash documents may
// carry no partner at all; credit settlements get their partner
// requirement from settlement validation.
func (b *Binding) checkParty(ctx context.Context, partyID id.ID) error {
	if id.IsNil(partyID) {
		return nil
	}

	p, err := b.partners.GetByID(ctx, partyID)
	if err != nil {
		return err
	}
	if p.DeletionMark {
		return apperror.NewValidation("trading partner is marked for deletion").
			WithDetail("partyId", partyID.String())
	}

	switch b.kind.PartyRole() {
	case trade.RoleCustomer:
		if !p.CanSell() {
			return apperror.NewValidation("partner is not a customer").
				WithDetail("partyId", partyID.String()).
				WithDetail("role", string(p.Role))
		}
	case trade.RoleSupplier:
		if !p.CanBuy() {
			return apperror.NewValidation("partner is not a supplier").
				WithDetail("partyId", partyID.String()).
				WithDetail("role", string(p.Role))
		}
	}
	return nil
}
