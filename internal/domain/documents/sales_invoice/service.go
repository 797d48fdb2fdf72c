// Package sales_invoice provides the sales invoice document service.
// A sales invoice records goods or services going out to a customer;
// its net increases cash or the customer's debt.
package sales_invoice

import (
	"daftar/internal/domain/documents"
	"daftar/internal/domain/trade"
)

// Service is the kind-scoped document service for sales invoices.
type Service struct {
	*documents.Binding
}

// NewService creates a sales invoice service.
func NewService(orch *trade.Orchestrator, partners documents.PartnerDirectory) *Service {
	return &Service{Binding: documents.NewBinding(trade.KindSalesInvoice, orch, partners)}
}
