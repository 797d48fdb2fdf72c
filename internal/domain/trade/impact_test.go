package trade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
)

type fakeCashAccounts struct {
	balances map[id.ID]types.Money
	adjusts  int
}

func newFakeCashAccounts() *fakeCashAccounts {
	return &fakeCashAccounts{balances: make(map[id.ID]types.Money)}
}

func (f *fakeCashAccounts) GetBalanceForUpdate(_ context.Context, accountID id.ID) (types.Money, error) {
	return f.balances[accountID], nil
}

func (f *fakeCashAccounts) AdjustBalance(_ context.Context, accountID id.ID, delta types.Money) error {
	f.adjusts++
	f.balances[accountID] = f.balances[accountID].Add(delta)
	return nil
}

type fakePartners struct {
	balances map[id.ID]types.Money
	adjusts  int
}

func newFakePartners() *fakePartners {
	return &fakePartners{balances: make(map[id.ID]types.Money)}
}

func (f *fakePartners) AdjustBalance(_ context.Context, partyID id.ID, delta types.Money) error {
	f.adjusts++
	f.balances[partyID] = f.balances[partyID].Add(delta)
	return nil
}

func cashDoc(kind Kind, net int64, accountID id.ID) *Document {
	doc := newTestDoc(kind)
	doc.Net = types.MoneyFromInt(net)
	doc.Settlement = NewCashSettlement(CashModeSafe, accountID)
	return doc
}

func creditDoc(kind Kind, net int64, partyID id.ID) *Document {
	doc := newTestDoc(kind)
	doc.PartyID = partyID
	doc.Net = types.MoneyFromInt(net)
	doc.Settlement = NewCreditSettlement(partyID)
	return doc
}

func TestImpact_CashSale_IncreasesAccount(t *testing.T) {
	accounts := newFakeCashAccounts()
	partners := newFakePartners()
	engine := NewImpactEngine(accounts, partners)

	safeID := id.New()
	doc := cashDoc(KindSalesInvoice, 1150, safeID)

	require.NoError(t, engine.Apply(context.Background(), doc))

	assert.True(t, accounts.balances[safeID].Equal(types.MoneyFromInt(1150)))
	assert.Zero(t, partners.adjusts, "cash settlement must not touch partner balances")
}

func TestImpact_CreditPurchase_DecreasesPartnerBalance(t *testing.T) {
	accounts := newFakeCashAccounts()
	partners := newFakePartners()
	engine := NewImpactEngine(accounts, partners)

	supplierID := id.New()
	doc := creditDoc(KindPurchaseInvoice, 800, supplierID)

	require.NoError(t, engine.Apply(context.Background(), doc))

	// negative balance: the business owes the supplier
	assert.True(t, partners.balances[supplierID].Equal(types.MoneyFromInt(-800)))
	assert.Zero(t, accounts.adjusts, "credit settlement must not touch cash accounts")
}

func TestImpact_ReverseCancelsExactly(t *testing.T) {
	for _, kind := range []Kind{KindSalesInvoice, KindSalesReturn, KindPurchaseInvoice, KindPurchaseReturn} {
		accounts := newFakeCashAccounts()
		partners := newFakePartners()
		engine := NewImpactEngine(accounts, partners)

		partyID := id.New()
		doc := creditDoc(kind, 333, partyID)

		require.NoError(t, engine.Apply(context.Background(), doc))
		require.NoError(t, engine.Reverse(context.Background(), doc))

		assert.True(t, partners.balances[partyID].IsZero(), "kind %s left residue %s", kind, partners.balances[partyID])
	}
}

func TestImpact_InverseKindsCancel(t *testing.T) {
	accounts := newFakeCashAccounts()
	partners := newFakePartners()
	engine := NewImpactEngine(accounts, partners)

	safeID := id.New()
	invoice := cashDoc(KindSalesInvoice, 500, safeID)
	ret := cashDoc(KindSalesReturn, 500, safeID)

	require.NoError(t, engine.Apply(context.Background(), invoice))
	require.NoError(t, engine.Apply(context.Background(), ret))

	assert.True(t, accounts.balances[safeID].IsZero())
}

func TestImpact_ZeroNetIsNoOp(t *testing.T) {
	accounts := newFakeCashAccounts()
	partners := newFakePartners()
	engine := NewImpactEngine(accounts, partners)

	doc := cashDoc(KindSalesInvoice, 0, id.New())

	require.NoError(t, engine.Apply(context.Background(), doc))
	require.NoError(t, engine.Reverse(context.Background(), doc))

	assert.Zero(t, accounts.adjusts)
	assert.Zero(t, partners.adjusts)
}

func TestImpact_InsufficientFunds(t *testing.T) {
	accounts := newFakeCashAccounts()
	partners := newFakePartners()
	engine := NewImpactEngine(accounts, partners)

	safeID := id.New()
	accounts.balances[safeID] = types.MoneyFromInt(100)

	// a cash sales return pays money out of the safe
	doc := cashDoc(KindSalesReturn, 250, safeID)

	err := engine.Apply(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientFunds))
	assert.True(t, accounts.balances[safeID].Equal(types.MoneyFromInt(100)), "failed apply must not move money")
}

func TestImpact_SplitSettlement(t *testing.T) {
	accounts := newFakeCashAccounts()
	partners := newFakePartners()
	engine := NewImpactEngine(accounts, partners)

	safeID, bankID := id.New(), id.New()
	doc := newTestDoc(KindSalesInvoice)
	doc.Net = types.MoneyFromInt(1000)
	doc.Settlement = NewSplitSettlement(safeID, types.MoneyFromInt(300), bankID, types.MoneyFromInt(700))

	require.NoError(t, engine.Apply(context.Background(), doc))

	assert.True(t, accounts.balances[safeID].Equal(types.MoneyFromInt(300)))
	assert.True(t, accounts.balances[bankID].Equal(types.MoneyFromInt(700)))

	require.NoError(t, engine.Reverse(context.Background(), doc))
	assert.True(t, accounts.balances[safeID].IsZero())
	assert.True(t, accounts.balances[bankID].IsZero())
}
