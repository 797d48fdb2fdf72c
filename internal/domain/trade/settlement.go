package trade

import (
	"context"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

// SettlementMethod is the top-level settlement discriminator.
type SettlementMethod string

const (
	SettlementCash   SettlementMethod = "cash"
	SettlementCredit SettlementMethod = "credit"
)

// CashMode refines a cash settlement.
type CashMode string

const (
	CashModeSafe  CashMode = "safe"
	CashModeBank  CashMode = "bank"
	CashModeSplit CashMode = "split"
)

// splitTolerance is the largest acceptable mismatch between the split
// amounts and the document net, in currency units.
var splitTolerance = types.MustMoney("0.01")

// Settlement describes how a document is settled. Exactly one of the
// two branches is active: cash (against cash accounts) or credit
// (against the trading partner's balance).
type Settlement struct {
	Method SettlementMethod `db:"settlement_method" json:"method"`

	// Cash branch. SafeAccountID/BankAccountID are set per mode;
	// for split both are set together with their amounts.
	CashMode      CashMode    `db:"cash_mode" json:"cashMode,omitempty"`
	SafeAccountID id.ID       `db:"safe_account_id" json:"safeAccountId,omitempty"`
	BankAccountID id.ID       `db:"bank_account_id" json:"bankAccountId,omitempty"`
	SafeAmount    types.Money `db:"safe_amount" json:"safeAmount,omitempty"`
	BankAmount    types.Money `db:"bank_amount" json:"bankAmount,omitempty"`

	// Credit branch
	PartyID id.ID `db:"party_id" json:"partyId,omitempty"`
}

// NewCashSettlement builds a single-account cash settlement.
func NewCashSettlement(mode CashMode, accountID id.ID) Settlement {
	s := Settlement{Method: SettlementCash, CashMode: mode}
	switch mode {
	case CashModeBank:
		s.BankAccountID = accountID
	default:
		s.SafeAccountID = accountID
	}
	return s
}

// NewSplitSettlement builds a cash settlement split between a safe and
// a bank account.
func NewSplitSettlement(safeID id.ID, safeAmount types.Money, bankID id.ID, bankAmount types.Money) Settlement {
	return Settlement{
		Method:        SettlementCash,
		CashMode:      CashModeSplit,
		SafeAccountID: safeID,
		SafeAmount:    safeAmount,
		BankAccountID: bankID,
		BankAmount:    bankAmount,
	}
}

// NewCreditSettlement builds a credit settlement against a trading partner.
func NewCreditSettlement(partyID id.ID) Settlement {
	return Settlement{Method: SettlementCredit, PartyID: partyID}
}

// IsCash reports whether the settlement hits cash accounts.
func (s Settlement) IsCash() bool { return s.Method == SettlementCash }

// IsCredit reports whether the settlement hits the partner balance.
func (s Settlement) IsCredit() bool { return s.Method == SettlementCredit }

// Portions returns the cash account portions of the settlement for a
// given document net. For single-account modes the whole net goes to
// the one account; for split the stored amounts are used.
func (s Settlement) Portions(net types.Money) []CashPortion {
	switch s.CashMode {
	case CashModeSafe:
		return []CashPortion{{AccountID: s.SafeAccountID, Amount: net}}
	case CashModeBank:
		return []CashPortion{{AccountID: s.BankAccountID, Amount: net}}
	case CashModeSplit:
		return []CashPortion{
			{AccountID: s.SafeAccountID, Amount: s.SafeAmount},
			{AccountID: s.BankAccountID, Amount: s.BankAmount},
		}
	}
	return nil
}

// CashPortion is a settlement slice routed to one cash account.
type CashPortion struct {
	AccountID id.ID
	Amount    types.Money
}

// Validate checks the settlement structure against the document net.
func (s Settlement) Validate(ctx context.Context, net types.Money) error {
	switch s.Method {
	case SettlementCredit:
		if id.IsNil(s.PartyID) {
			return apperror.NewValidation("credit settlement requires a party").
				WithDetail("field", "settlement.partyId")
		}
		if !id.IsNil(s.SafeAccountID) || !id.IsNil(s.BankAccountID) {
			return apperror.NewValidation("credit settlement must not reference cash accounts").
				WithDetail("field", "settlement")
		}
		return nil

	case SettlementCash:
		switch s.CashMode {
		case CashModeSafe:
			if id.IsNil(s.SafeAccountID) {
				return apperror.NewValidation("cash settlement requires a safe account").
					WithDetail("field", "settlement.safeAccountId")
			}
		case CashModeBank:
			if id.IsNil(s.BankAccountID) {
				return apperror.NewValidation("cash settlement requires a bank account").
					WithDetail("field", "settlement.bankAccountId")
			}
		case CashModeSplit:
			if id.IsNil(s.SafeAccountID) || id.IsNil(s.BankAccountID) {
				return apperror.NewValidation("split settlement requires both accounts").
					WithDetail("field", "settlement")
			}
			if s.SafeAmount.IsNegative() || s.BankAmount.IsNegative() {
				return apperror.NewValidation("split amounts must not be negative").
					WithDetail("field", "settlement")
			}
			sum := s.SafeAmount.Add(s.BankAmount)
			if sum.Sub(net).Abs().GreaterThan(splitTolerance) {
				return apperror.NewValidation("split amounts must sum to the document net").
					WithDetail("field", "settlement").
					WithDetail("sum", sum.String()).
					WithDetail("net", net.String())
			}
		default:
			return apperror.NewValidation("unknown cash mode").
				WithDetail("cashMode", string(s.CashMode))
		}
		return nil
	}

	return apperror.NewValidation("unknown settlement method").
		WithDetail("method", string(s.Method))
}
