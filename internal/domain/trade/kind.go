// Package trade implements the shared posting protocol for trade documents:
// sales invoices, sales returns, purchase invoices and purchase returns.
// All four kinds share one document shape, one totals calculation and one
// mutation lifecycle; the kind descriptor carries everything that differs.
package trade

import (
	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
)

// Kind identifies a trade document kind.
type Kind string

const (
	KindSalesInvoice    Kind = "sales_invoice"
	KindSalesReturn     Kind = "sales_return"
	KindPurchaseInvoice Kind = "purchase_invoice"
	KindPurchaseReturn  Kind = "purchase_return"
)

// ParseKind validates and returns a Kind from its string form.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSalesInvoice, KindSalesReturn, KindPurchaseInvoice, KindPurchaseReturn:
		return Kind(s), nil
	}
	return "", apperror.NewValidation("unknown document kind").WithDetail("kind", s)
}

// Sign is the financial direction of the document's net total:
// +1 means money flows toward the business, -1 away from it.
func (k Kind) Sign() int {
	switch k {
	case KindSalesInvoice, KindPurchaseReturn:
		return +1
	case KindSalesReturn, KindPurchaseInvoice:
		return -1
	}
	return 0
}

// Inverse returns the kind whose financial and stock effects exactly
// cancel this kind's effects for the same document body.
func (k Kind) Inverse() Kind {
	switch k {
	case KindSalesInvoice:
		return KindSalesReturn
	case KindSalesReturn:
		return KindSalesInvoice
	case KindPurchaseInvoice:
		return KindPurchaseReturn
	case KindPurchaseReturn:
		return KindPurchaseInvoice
	}
	return k
}

// StockDirection returns the register record type for this kind's
// stock movements: expense when goods leave the store, receipt when
// they come in.
func (k Kind) StockDirection() entity.RecordType {
	switch k {
	case KindSalesInvoice, KindPurchaseReturn:
		return entity.RecordTypeExpense
	default:
		return entity.RecordTypeReceipt
	}
}

// PartyRole names which side of the trade the document's party is on.
type PartyRole string

const (
	RoleCustomer PartyRole = "customer"
	RoleSupplier PartyRole = "supplier"
)

// PartyRole returns the role the trading partner plays for this kind.
func (k Kind) PartyRole() PartyRole {
	switch k {
	case KindSalesInvoice, KindSalesReturn:
		return RoleCustomer
	default:
		return RoleSupplier
	}
}

// CodePrefix is the numerator prefix used for document codes of this kind.
func (k Kind) CodePrefix() string {
	switch k {
	case KindSalesInvoice:
		return "INV"
	case KindSalesReturn:
		return "SRN"
	case KindPurchaseInvoice:
		return "PIN"
	case KindPurchaseReturn:
		return "PRN"
	}
	return "DOC"
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }
