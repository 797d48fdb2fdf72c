// Package purchase_invoice provides the purchase invoice document
// service. A purchase invoice brings goods in from a supplier; its net
// decreases cash or increases the debt to the supplier.
package purchase_invoice

import (
	"daftar/internal/domain/documents"
	"daftar/internal/domain/trade"
)

// Service is the kind-scoped document service for purchase invoices.
type Service struct {
	*documents.Binding
}

// NewService creates a purchase invoice service.
func NewService(orch *trade.Orchestrator, partners documents.PartnerDirectory) *Service {
	return &Service{Binding: documents.NewBinding(trade.KindPurchaseInvoice, orch, partners)}
}
