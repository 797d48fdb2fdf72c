// Package sales_return provides the sales return document service.
// A sales return takes goods back from a customer and pays the money
// out; it is the exact inverse of a sales invoice.
package sales_return

import (
	"daftar/internal/domain/documents"
	"daftar/internal/domain/trade"
)

// Service is the kind-scoped document service for sales returns.
type Service struct {
	*documents.Binding
}

// NewService creates a sales return service.
func NewService(orch *trade.Orchestrator, partners documents.PartnerDirectory) *Service {
	return &Service{Binding: documents.NewBinding(trade.KindSalesReturn, orch, partners)}
}
