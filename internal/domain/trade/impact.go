package trade

import (
	"context"

	"github.com/shopspring/decimal"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

// CashAccounts is the balance port for cash accounts (safes and banks).
// AdjustBalance must be an atomic increment in storage, never a
// read-modify-write from the caller's side.
type CashAccounts interface {
	// GetBalanceForUpdate reads the current balance under a row lock.
	GetBalanceForUpdate(ctx context.Context, accountID id.ID) (types.Money, error)

	// AdjustBalance atomically adds delta to the account balance.
	AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error
}

// Partners is the balance port for trading partners. Positive balance
// means the partner owes the business, negative means the business
// owes the partner.
type Partners interface {
	// AdjustBalance atomically adds delta to the partner balance.
	AdjustBalance(ctx context.Context, partyID id.ID, delta types.Money) error
}

// ImpactEngine applies a document's financial effect: a signed delta to
// exactly one destination, either cash accounts or the trading partner
// balance, never both. The delta is kind.Sign() times the settled
// amount, so the kinds of an inverse pair cancel exactly.
type ImpactEngine struct {
	accounts CashAccounts
	partners Partners
}

// NewImpactEngine creates an impact engine over the balance ports.
func NewImpactEngine(accounts CashAccounts, partners Partners) *ImpactEngine {
	return &ImpactEngine{accounts: accounts, partners: partners}
}

// Apply records the document's financial effect.
func (e *ImpactEngine) Apply(ctx context.Context, doc *Document) error {
	return e.applyAs(ctx, doc, doc.Kind)
}

// Reverse cancels a previously applied effect. Reversal is applying
// the inverse kind to the same document body.
func (e *ImpactEngine) Reverse(ctx context.Context, doc *Document) error {
	return e.applyAs(ctx, doc, doc.Kind.Inverse())
}

func (e *ImpactEngine) applyAs(ctx context.Context, doc *Document, kind Kind) error {
	if doc.Net.IsZero() {
		return nil
	}

	sign := decimal.NewFromInt(int64(kind.Sign()))

	if doc.Settlement.IsCredit() {
		return e.partners.AdjustBalance(ctx, doc.Settlement.PartyID, doc.Net.Mul(sign))
	}

	for _, portion := range doc.Settlement.Portions(doc.Net) {
		if portion.Amount.IsZero() {
			continue
		}
		delta := portion.Amount.Mul(sign)

		// Cash accounts must never go negative. The row lock holds
		// until commit, so the check and the adjustment are one unit.
		if delta.IsNegative() {
			balance, err := e.accounts.GetBalanceForUpdate(ctx, portion.AccountID)
			if err != nil {
				return err
			}
			if balance.Add(delta).IsNegative() {
				return apperror.NewInsufficientFunds(
					portion.AccountID.String(),
					delta.Neg().String(),
					balance.String(),
				)
			}
		}

		if err := e.accounts.AdjustBalance(ctx, portion.AccountID, delta); err != nil {
			return err
		}
	}
	return nil
}
