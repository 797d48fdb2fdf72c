package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/id"
	"daftar/internal/core/types"
	"daftar/internal/domain/trade"
)

func TestSettlementRequest_ToSettlement_Credit(t *testing.T) {
	partyID := id.New()

	s, err := SettlementRequest{Method: "credit"}.ToSettlement(partyID)
	require.NoError(t, err)
	assert.True(t, s.IsCredit())
	assert.Equal(t, partyID, s.PartyID)
}

func TestSettlementRequest_ToSettlement_CashSafe(t *testing.T) {
	safeID := id.New()

	s, err := SettlementRequest{
		Method:        "cash",
		CashMode:      "safe",
		SafeAccountID: safeID.String(),
	}.ToSettlement(id.New())
	require.NoError(t, err)
	assert.True(t, s.IsCash())
	assert.Equal(t, trade.CashModeSafe, s.CashMode)
	assert.Equal(t, safeID, s.SafeAccountID)
	assert.True(t, id.IsNil(s.PartyID))
}

func TestSettlementRequest_ToSettlement_CashBank(t *testing.T) {
	bankID := id.New()

	s, err := SettlementRequest{
		Method:        "cash",
		CashMode:      "bank",
		BankAccountID: bankID.String(),
	}.ToSettlement(id.New())
	require.NoError(t, err)
	assert.Equal(t, trade.CashModeBank, s.CashMode)
	assert.Equal(t, bankID, s.BankAccountID)
}

func TestSettlementRequest_ToSettlement_Split(t *testing.T) {
	safeID := id.New()
	bankID := id.New()

	s, err := SettlementRequest{
		Method:        "cash",
		CashMode:      "split",
		SafeAccountID: safeID.String(),
		BankAccountID: bankID.String(),
		SafeAmount:    types.NewMoney(60),
		BankAmount:    types.NewMoney(40),
	}.ToSettlement(id.New())
	require.NoError(t, err)
	assert.Equal(t, trade.CashModeSplit, s.CashMode)
	assert.Equal(t, safeID, s.SafeAccountID)
	assert.Equal(t, bankID, s.BankAccountID)
	assert.True(t, s.SafeAmount.Equal(types.NewMoney(60)))
	assert.True(t, s.BankAmount.Equal(types.NewMoney(40)))
}

func TestSettlementRequest_ToSettlement_BadAccountID(t *testing.T) {
	_, err := SettlementRequest{
		Method:        "cash",
		CashMode:      "safe",
		SafeAccountID: "not-a-uuid",
	}.ToSettlement(id.New())
	assert.Error(t, err)
}
