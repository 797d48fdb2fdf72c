package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daftar/internal/core/entity"
)

func TestKind_Sign(t *testing.T) {
	assert.Equal(t, +1, KindSalesInvoice.Sign())
	assert.Equal(t, -1, KindSalesReturn.Sign())
	assert.Equal(t, -1, KindPurchaseInvoice.Sign())
	assert.Equal(t, +1, KindPurchaseReturn.Sign())
}

func TestKind_Inverse(t *testing.T) {
	pairs := map[Kind]Kind{
		KindSalesInvoice:    KindSalesReturn,
		KindSalesReturn:     KindSalesInvoice,
		KindPurchaseInvoice: KindPurchaseReturn,
		KindPurchaseReturn:  KindPurchaseInvoice,
	}

	for kind, inverse := range pairs {
		assert.Equal(t, inverse, kind.Inverse())
		assert.Equal(t, kind, kind.Inverse().Inverse(), "double inversion is identity")
		assert.Equal(t, -kind.Sign(), kind.Inverse().Sign(), "inverse kinds carry opposite signs")
		assert.Equal(t, kind.StockDirection().Opposite(), kind.Inverse().StockDirection())
	}
}

func TestKind_StockDirection(t *testing.T) {
	assert.Equal(t, entity.RecordTypeExpense, KindSalesInvoice.StockDirection())
	assert.Equal(t, entity.RecordTypeReceipt, KindSalesReturn.StockDirection())
	assert.Equal(t, entity.RecordTypeReceipt, KindPurchaseInvoice.StockDirection())
	assert.Equal(t, entity.RecordTypeExpense, KindPurchaseReturn.StockDirection())
}

func TestKind_PartyRole(t *testing.T) {
	assert.Equal(t, RoleCustomer, KindSalesInvoice.PartyRole())
	assert.Equal(t, RoleCustomer, KindSalesReturn.PartyRole())
	assert.Equal(t, RoleSupplier, KindPurchaseInvoice.PartyRole())
	assert.Equal(t, RoleSupplier, KindPurchaseReturn.PartyRole())
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("sales_invoice")
	assert.NoError(t, err)
	assert.Equal(t, KindSalesInvoice, kind)

	_, err = ParseKind("credit_note")
	assert.Error(t, err)
}

func TestKind_CodePrefix(t *testing.T) {
	assert.Equal(t, "INV", KindSalesInvoice.CodePrefix())
	assert.Equal(t, "SRN", KindSalesReturn.CodePrefix())
	assert.Equal(t, "PIN", KindPurchaseInvoice.CodePrefix())
	assert.Equal(t, "PRN", KindPurchaseReturn.CodePrefix())
}
