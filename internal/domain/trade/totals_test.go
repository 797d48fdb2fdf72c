package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func newTestDoc(kind Kind) *Document {
	return New(id.New(), id.New(), kind)
}

func TestCalculateTotals_ExclusiveTax(t *testing.T) {
	doc := newTestDoc(KindSalesInvoice)
	doc.AddLine(id.New(), qty(10), types.MoneyFromInt(100))

	CalculateTotals(doc, TaxPolicy{Enabled: true, Rate: types.MustMoney("0.15")})

	assert.True(t, doc.Subtotal.Equal(types.MoneyFromInt(1000)), "subtotal %s", doc.Subtotal)
	assert.True(t, doc.TaxTotal.Equal(types.MoneyFromInt(150)), "tax %s", doc.TaxTotal)
	assert.True(t, doc.Net.Equal(types.MoneyFromInt(1150)), "net %s", doc.Net)

	assert.True(t, doc.Lines[0].TaxAmount.Equal(types.MoneyFromInt(150)))
	assert.True(t, doc.Lines[0].NetAmount.Equal(types.MoneyFromInt(1150)))
}

func TestCalculateTotals_InclusiveTax(t *testing.T) {
	doc := newTestDoc(KindSalesInvoice)
	doc.AddLine(id.New(), qty(10), types.MoneyFromInt(115))

	CalculateTotals(doc, TaxPolicy{Enabled: true, Rate: types.MustMoney("0.15"), Inclusive: true})

	// gross 1150 carries the tax: base 1000, tax 150
	assert.True(t, doc.Subtotal.Equal(types.MoneyFromInt(1000)), "subtotal %s", doc.Subtotal)
	assert.True(t, doc.TaxTotal.Equal(types.MoneyFromInt(150)), "tax %s", doc.TaxTotal)
	assert.True(t, doc.Net.Equal(types.MoneyFromInt(1150)), "net %s", doc.Net)
}

func TestCalculateTotals_InclusiveAndExclusiveAgreeOnNet(t *testing.T) {
	exclusive := newTestDoc(KindSalesInvoice)
	exclusive.AddLine(id.New(), qty(3), types.MoneyFromInt(200))
	CalculateTotals(exclusive, TaxPolicy{Enabled: true, Rate: types.MustMoney("0.1")})

	inclusive := newTestDoc(KindSalesInvoice)
	inclusive.AddLine(id.New(), qty(3), types.MoneyFromInt(220))
	CalculateTotals(inclusive, TaxPolicy{Enabled: true, Rate: types.MustMoney("0.1"), Inclusive: true})

	assert.True(t, exclusive.Net.Equal(inclusive.Net), "%s vs %s", exclusive.Net, inclusive.Net)
}

func TestCalculateTotals_DocumentDiscount(t *testing.T) {
	doc := newTestDoc(KindSalesInvoice)
	doc.AddLine(id.New(), qty(10), types.MoneyFromInt(100))
	doc.Discount = types.MoneyFromInt(150)

	CalculateTotals(doc, TaxPolicy{Enabled: true, Rate: types.MustMoney("0.15")})

	// discount applies at document level, after tax
	assert.True(t, doc.Net.Equal(types.MoneyFromInt(1000)), "net %s", doc.Net)
	assert.True(t, doc.Subtotal.Equal(types.MoneyFromInt(1000)))
	assert.True(t, doc.TaxTotal.Equal(types.MoneyFromInt(150)))
}

func TestCalculateTotals_TaxDisabled(t *testing.T) {
	doc := newTestDoc(KindPurchaseInvoice)
	doc.AddLine(id.New(), qty(2), types.MustMoney("49.99"))

	CalculateTotals(doc, NoTax)

	assert.True(t, doc.Subtotal.Equal(types.MustMoney("99.98")))
	assert.True(t, doc.TaxTotal.IsZero())
	assert.True(t, doc.Net.Equal(types.MustMoney("99.98")))
}

func TestCalculateTotals_NonPositiveRate(t *testing.T) {
	// A zero or negative configured rate means no tax, never a
	// negative one.
	for _, rate := range []string{"0", "-0.15"} {
		doc := newTestDoc(KindSalesInvoice)
		doc.AddLine(id.New(), qty(10), types.MoneyFromInt(100))

		CalculateTotals(doc, TaxPolicy{Enabled: true, Rate: types.MustMoney(rate)})

		assert.True(t, doc.TaxTotal.IsZero(), "rate %s: tax %s", rate, doc.TaxTotal)
		assert.True(t, doc.Net.Equal(types.MoneyFromInt(1000)), "rate %s: net %s", rate, doc.Net)
	}
}

func TestCalculateTotals_Recalculation(t *testing.T) {
	policy := TaxPolicy{Enabled: true, Rate: types.MustMoney("0.15")}

	doc := newTestDoc(KindSalesInvoice)
	doc.AddLine(id.New(), qty(10), types.MoneyFromInt(100))
	CalculateTotals(doc, policy)
	assert.True(t, doc.Net.Equal(types.MoneyFromInt(1150)))

	// editing the quantity and recalculating replaces the totals wholesale
	doc.Lines[0].Quantity = qty(4)
	CalculateTotals(doc, policy)

	assert.True(t, doc.Subtotal.Equal(types.MoneyFromInt(400)), "subtotal %s", doc.Subtotal)
	assert.True(t, doc.TaxTotal.Equal(types.MoneyFromInt(60)), "tax %s", doc.TaxTotal)
	assert.True(t, doc.Net.Equal(types.MoneyFromInt(460)), "net %s", doc.Net)
}

func TestCalculateTotals_FractionalQuantity(t *testing.T) {
	doc := newTestDoc(KindSalesInvoice)
	doc.AddLine(id.New(), qty(2.5), types.MustMoney("10.00"))

	CalculateTotals(doc, NoTax)

	assert.True(t, doc.Net.Equal(types.MoneyFromInt(25)), "net %s", doc.Net)
}
