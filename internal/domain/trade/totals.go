package trade

import (
	"github.com/shopspring/decimal"

	"daftar/internal/core/types"
)

// moneyScale is the rounding scale for calculated amounts (2 decimal places).
const moneyScale = 2

// TaxPolicy describes how tax is applied to document lines.
type TaxPolicy struct {
	// Enabled toggles tax calculation entirely
	Enabled bool `json:"enabled"`

	// Rate is the fractional tax rate (0.15 for 15%)
	Rate types.Money `json:"rate"`

	// Inclusive means line prices already contain tax
	Inclusive bool `json:"inclusive"`
}

// NoTax is the policy applied when tax is disabled.
var NoTax = TaxPolicy{}

// CalculateTotals fills in the calculated amounts of every line and the
// document totals. It is a pure function of the lines, the discount and
// the tax policy; no I/O, no state.
//
// With an exclusive policy the line amount is the tax base and tax is
// added on top. With an inclusive policy the line amount already carries
// tax, which is backed out: base = amount / (1 + rate).
// Net = Subtotal + TaxTotal - Discount.
func CalculateTotals(doc *Document, policy TaxPolicy) {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero

	for i := range doc.Lines {
		line := &doc.Lines[i]
		gross := line.Quantity.Decimal().Mul(line.UnitPrice)

		var base, tax decimal.Decimal
		switch {
		case !policy.Enabled || !policy.Rate.IsPositive():
			base = gross
			tax = decimal.Zero
		case policy.Inclusive:
			base = gross.Div(decimal.NewFromInt(1).Add(policy.Rate)).Round(moneyScale)
			tax = gross.Sub(base)
		default:
			base = gross
			tax = gross.Mul(policy.Rate).Round(moneyScale)
		}

		line.TaxAmount = tax
		line.NetAmount = base.Add(tax)

		subtotal = subtotal.Add(base)
		taxTotal = taxTotal.Add(tax)
	}

	doc.Subtotal = subtotal.Round(moneyScale)
	doc.TaxTotal = taxTotal.Round(moneyScale)
	doc.Net = doc.Subtotal.Add(doc.TaxTotal).Sub(doc.Discount).Round(moneyScale)
}
