// Package purchase_return provides the purchase return document
// service. A purchase return sends goods back to a supplier and
// recovers the money; it is the exact inverse of a purchase invoice.
package purchase_return

import (
	"daftar/internal/domain/documents"
	"daftar/internal/domain/trade"
)

// Service is the kind-scoped document service for purchase returns.
type Service struct {
	*documents.Binding
}

// NewService creates a purchase return service.
func NewService(orch *trade.Orchestrator, partners documents.PartnerDirectory) *Service {
	return &Service{Binding: documents.NewBinding(trade.KindPurchaseReturn, orch, partners)}
}
