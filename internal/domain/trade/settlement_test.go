package trade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

func TestSettlement_Validate_Credit(t *testing.T) {
	ctx := context.Background()
	net := types.MoneyFromInt(500)

	s := NewCreditSettlement(id.New())
	assert.NoError(t, s.Validate(ctx, net))
	assert.True(t, s.IsCredit())
	assert.False(t, s.IsCash())

	missing := Settlement{Method: SettlementCredit}
	assert.Error(t, missing.Validate(ctx, net))

	// a credit settlement must not also route to cash accounts
	mixed := NewCreditSettlement(id.New())
	mixed.SafeAccountID = id.New()
	assert.Error(t, mixed.Validate(ctx, net))
}

func TestSettlement_Validate_Cash(t *testing.T) {
	ctx := context.Background()
	net := types.MoneyFromInt(500)

	safe := NewCashSettlement(CashModeSafe, id.New())
	assert.NoError(t, safe.Validate(ctx, net))

	bank := NewCashSettlement(CashModeBank, id.New())
	assert.NoError(t, bank.Validate(ctx, net))

	noAccount := Settlement{Method: SettlementCash, CashMode: CashModeSafe}
	assert.Error(t, noAccount.Validate(ctx, net))
}

func TestSettlement_Validate_Split(t *testing.T) {
	ctx := context.Background()
	net := types.MoneyFromInt(500)

	ok := NewSplitSettlement(id.New(), types.MoneyFromInt(200), id.New(), types.MoneyFromInt(300))
	assert.NoError(t, ok.Validate(ctx, net))

	short := NewSplitSettlement(id.New(), types.MoneyFromInt(200), id.New(), types.MoneyFromInt(200))
	assert.Error(t, short.Validate(ctx, net), "split amounts must sum to net")

	negative := NewSplitSettlement(id.New(), types.MoneyFromInt(-100), id.New(), types.MoneyFromInt(600))
	assert.Error(t, negative.Validate(ctx, net))

	// sub-cent mismatch is tolerated (rounding)
	nearly := NewSplitSettlement(id.New(), types.MustMoney("200.005"), id.New(), types.MustMoney("299.99"))
	assert.NoError(t, nearly.Validate(ctx, net))
}

func TestSettlement_Portions(t *testing.T) {
	net := types.MoneyFromInt(900)

	safeID := id.New()
	single := NewCashSettlement(CashModeSafe, safeID)
	portions := single.Portions(net)
	require.Len(t, portions, 1)
	assert.Equal(t, safeID, portions[0].AccountID)
	assert.True(t, portions[0].Amount.Equal(net))

	bankID := id.New()
	split := NewSplitSettlement(safeID, types.MoneyFromInt(400), bankID, types.MoneyFromInt(500))
	portions = split.Portions(net)
	require.Len(t, portions, 2)
	assert.True(t, portions[0].Amount.Add(portions[1].Amount).Equal(net))
}
