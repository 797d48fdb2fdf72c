package trade

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
	"daftar/internal/domain"
	"daftar/internal/domain/audit"
	"daftar/pkg/numerator"
)

// --- fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

type seqQuerier struct{ counters map[string]int64 }

func (q *seqQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if q.counters == nil {
		q.counters = make(map[string]int64)
	}
	key, _ := args[1].(string)
	q.counters[key]++
	return &seqRow{val: q.counters[key]}
}

type fakeDocRepo struct {
	docs  map[id.ID]Document
	lines map[id.ID][]Line
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[id.ID]Document), lines: make(map[id.ID][]Line)}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *Document) error {
	if _, ok := r.docs[doc.ID]; ok {
		return apperror.NewDuplicate("document", "id", doc.ID.String())
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, docID id.ID) (*Document, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID.String())
	}
	out := doc
	return &out, nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *Document) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	if stored.Version != doc.Version {
		return apperror.NewConcurrentModification("document", doc.ID.String())
	}
	doc.Version++
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *fakeDocRepo) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (r *fakeDocRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), r.lines[docID]...), nil
}

func (r *fakeDocRepo) DeleteLines(_ context.Context, docID id.ID) error {
	delete(r.lines, docID)
	return nil
}

func (r *fakeDocRepo) List(_ context.Context, kind Kind, _ domain.DocumentListFilter) (domain.ListResult[*Document], error) {
	var out []*Document
	for docID := range r.docs {
		doc := r.docs[docID]
		if doc.Kind == kind {
			out = append(out, &doc)
		}
	}
	return domain.ListResult[*Document]{Items: out, TotalCount: int64(len(out))}, nil
}

type fakeStockRegister struct {
	balances  map[string]types.Quantity
	movements []entity.StockMovement
}

func newFakeStockRegister() *fakeStockRegister {
	return &fakeStockRegister{balances: make(map[string]types.Quantity)}
}

func stockKey(storeID, itemID id.ID) string {
	return storeID.String() + "/" + itemID.String()
}

func (r *fakeStockRegister) Record(_ context.Context, movements []entity.StockMovement) error {
	for _, m := range movements {
		r.balances[stockKey(m.StoreID, m.ItemID)] += m.SignedQuantity()
	}
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeStockRegister) Reverse(_ context.Context, recorderID id.ID, beforeVersion int) error {
	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.RecorderID == recorderID && m.RecorderVersion < beforeVersion {
			r.balances[stockKey(m.StoreID, m.ItemID)] -= m.SignedQuantity()
			continue
		}
		kept = append(kept, m)
	}
	r.movements = kept
	return nil
}

func (r *fakeStockRegister) CheckAvailability(_ context.Context, storeID id.ID, demands []ItemDemand) error {
	for _, d := range demands {
		available := r.balances[stockKey(storeID, d.ItemID)]
		if available < d.Quantity {
			return apperror.NewInsufficientStock(d.ItemID.String(), d.Quantity.Float64(), available.Float64())
		}
	}
	return nil
}

func (r *fakeStockRegister) EnsureNonNegative(_ context.Context, storeID id.ID, itemIDs []id.ID) error {
	for _, itemID := range itemIDs {
		if bal := r.balances[stockKey(storeID, itemID)]; bal.IsNegative() {
			return apperror.NewInsufficientStock(itemID.String(), 0, bal.Float64())
		}
	}
	return nil
}

type fakePeriodGuard struct{ err error }

func (g *fakePeriodGuard) EnsureOpen(context.Context, time.Time) error { return g.err }

type fakeItemResolver struct{ stocked map[id.ID]bool }

func (r *fakeItemResolver) StockedItems(_ context.Context, ids []id.ID) (map[id.ID]bool, error) {
	out := make(map[id.ID]bool, len(ids))
	for _, itemID := range ids {
		isStocked, known := r.stocked[itemID]
		if !known {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		out[itemID] = isStocked
	}
	return out, nil
}

type recordingSink struct{ events []audit.Event }

func (s *recordingSink) Record(_ context.Context, event audit.Event) {
	s.events = append(s.events, event)
}

// --- fixture ---

type fixture struct {
	orch     *Orchestrator
	repo     *fakeDocRepo
	stock    *fakeStockRegister
	periods  *fakePeriodGuard
	items    *fakeItemResolver
	accounts *fakeCashAccounts
	partners *fakePartners
	sink     *recordingSink

	tenantID id.ID
	branchID id.ID
	storeID  id.ID
	safeID   id.ID
	itemID   id.ID
	partyID  id.ID
}

func newFixture(tax TaxPolicy) *fixture {
	f := &fixture{
		repo:     newFakeDocRepo(),
		stock:    newFakeStockRegister(),
		periods:  &fakePeriodGuard{},
		accounts: newFakeCashAccounts(),
		partners: newFakePartners(),
		sink:     &recordingSink{},
		tenantID: id.New(),
		branchID: id.New(),
		storeID:  id.New(),
		safeID:   id.New(),
		itemID:   id.New(),
		partyID:  id.New(),
	}
	f.items = &fakeItemResolver{stocked: map[id.ID]bool{f.itemID: true}}
	f.orch = NewOrchestrator(Config{
		Repo:      f.repo,
		Stock:     f.stock,
		Periods:   f.periods,
		Items:     f.items,
		Impact:    NewImpactEngine(f.accounts, f.partners),
		Numerator: numerator.New(&seqQuerier{}),
		TxManager: fakeTxManager{},
		Audit:     f.sink,
		Tax:       tax,
	})
	return f
}

func (f *fixture) seedStock(quantity types.Quantity) {
	f.stock.balances[stockKey(f.storeID, f.itemID)] = quantity
}

func (f *fixture) stockBalance() types.Quantity {
	return f.stock.balances[stockKey(f.storeID, f.itemID)]
}

func (f *fixture) newDoc(kind Kind, quantity types.Quantity, price types.Money) *Document {
	doc := New(f.tenantID, f.branchID, kind)
	doc.PartyID = f.partyID
	doc.StoreID = f.storeID
	doc.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	doc.AddLine(f.itemID, quantity, price)
	return doc
}

var taxed = TaxPolicy{Enabled: true, Rate: types.MustMoney("0.15")}

// --- tests ---

func TestOrchestrator_Create(t *testing.T) {
	f := newFixture(taxed)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(10), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, doc))

	assert.Equal(t, "INV-00001", doc.Code)
	assert.Equal(t, 1, doc.EffectVersion)
	assert.True(t, doc.Net.Equal(types.MoneyFromInt(1150)))

	// stock down by 10, cash up by net
	assert.Equal(t, qty(40), f.stockBalance())
	assert.True(t, f.accounts.balances[f.safeID].Equal(types.MoneyFromInt(1150)))

	stored, err := f.orch.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, audit.ActionCreate, f.sink.events[0].Action)

	// codes are sequential per kind
	second := f.newDoc(KindSalesInvoice, qty(1), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, second))
	assert.Equal(t, "INV-00002", second.Code)

	purchase := f.newDoc(KindPurchaseInvoice, qty(5), types.MoneyFromInt(60))
	require.NoError(t, f.orch.Create(ctx, purchase))
	assert.Equal(t, "PIN-00001", purchase.Code, "each kind numbers independently")
}

type fakeSafeResolver struct{ safeID id.ID }

func (r *fakeSafeResolver) SafeIDForBranch(context.Context, id.ID) (id.ID, error) {
	return r.safeID, nil
}

func TestOrchestrator_Create_ResolvesSafeFromBranch(t *testing.T) {
	f := newFixture(taxed)
	f.orch.safes = &fakeSafeResolver{safeID: f.safeID}
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(10), types.MoneyFromInt(100))
	doc.Settlement = NewCashSettlement(CashModeSafe, id.Nil())
	require.NoError(t, f.orch.Create(ctx, doc))

	assert.Equal(t, f.safeID, doc.Settlement.SafeAccountID)
	assert.True(t, f.accounts.balances[f.safeID].Equal(types.MoneyFromInt(1150)))
}

func TestOrchestrator_Create_InsufficientStock(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(3))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(10), types.MoneyFromInt(100))
	err := f.orch.Create(ctx, doc)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// nothing persisted, no balances moved
	assert.Empty(t, f.repo.docs)
	assert.Equal(t, qty(3), f.stockBalance())
	assert.Zero(t, f.accounts.adjusts)
	assert.Empty(t, f.sink.events)
}

func TestOrchestrator_Create_StockOverride(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(3))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(10), types.MoneyFromInt(100))
	doc.StockOverride = true

	require.NoError(t, f.orch.Create(ctx, doc))
	assert.Equal(t, qty(-7), f.stockBalance(), "override permits negative stock")
}

func TestOrchestrator_Create_ClosedPeriod(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(50))
	f.periods.err = apperror.NewPeriodClosed("2026-07")
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(1), types.MoneyFromInt(100))
	err := f.orch.Create(ctx, doc)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePeriodClosed))
	assert.Empty(t, f.repo.docs)
	assert.Equal(t, qty(50), f.stockBalance())
}

func TestOrchestrator_Create_ServiceItemMovesNoStock(t *testing.T) {
	f := newFixture(NoTax)
	ctx := context.Background()

	serviceID := id.New()
	f.items.stocked[serviceID] = false

	doc := New(f.tenantID, f.branchID, KindSalesInvoice)
	doc.PartyID = f.partyID
	doc.StoreID = f.storeID
	doc.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	doc.AddLine(serviceID, qty(2), types.MoneyFromInt(500))

	require.NoError(t, f.orch.Create(ctx, doc))

	assert.Empty(t, f.stock.movements, "service lines produce no stock movements")
	assert.True(t, f.accounts.balances[f.safeID].Equal(types.MoneyFromInt(1000)), "financial impact still applies")
}

func TestOrchestrator_Create_UnknownItem(t *testing.T) {
	f := newFixture(NoTax)
	ctx := context.Background()

	doc := New(f.tenantID, f.branchID, KindSalesInvoice)
	doc.PartyID = f.partyID
	doc.StoreID = f.storeID
	doc.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	doc.AddLine(id.New(), qty(1), types.MoneyFromInt(10))

	err := f.orch.Create(ctx, doc)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.repo.docs)
}

func TestOrchestrator_Update_ReversesOldAppliesNew(t *testing.T) {
	f := newFixture(taxed)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(10), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, doc))
	require.Equal(t, qty(40), f.stockBalance())

	updated, err := f.orch.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	updated.Lines[0].Quantity = qty(4)
	updated.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	require.NoError(t, f.orch.Update(ctx, updated))

	// totals recalculated: 4 x 100 + 15% tax = 460
	assert.True(t, updated.Net.Equal(types.MoneyFromInt(460)), "net %s", updated.Net)
	assert.Equal(t, doc.Code, updated.Code, "code survives updates")
	assert.Equal(t, 2, updated.EffectVersion)

	// old effects fully reversed before new ones applied
	assert.Equal(t, qty(46), f.stockBalance())
	assert.True(t, f.accounts.balances[f.safeID].Equal(types.MoneyFromInt(460)))

	// only current-version movements remain
	require.Len(t, f.stock.movements, 1)
	assert.Equal(t, 2, f.stock.movements[0].RecorderVersion)
}

func TestOrchestrator_Update_KindChangeRejected(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(1), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, doc))

	updated, err := f.orch.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	updated.Kind = KindPurchaseInvoice
	updated.Settlement = NewCashSettlement(CashModeSafe, f.safeID)

	err = f.orch.Update(ctx, updated)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestOrchestrator_Update_StaleVersionConflicts(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(1), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, doc))

	stale, err := f.orch.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	stale.Settlement = NewCashSettlement(CashModeSafe, f.safeID)

	current, err := f.orch.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	current.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	require.NoError(t, f.orch.Update(ctx, current))

	err = f.orch.Update(ctx, stale)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrentModification(err))
}

func TestOrchestrator_Delete_ReversesEverything(t *testing.T) {
	f := newFixture(taxed)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(10), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, doc))

	require.NoError(t, f.orch.Delete(ctx, doc.ID))

	assert.Equal(t, qty(50), f.stockBalance(), "stock restored")
	assert.True(t, f.accounts.balances[f.safeID].IsZero(), "cash restored")
	assert.Empty(t, f.stock.movements)

	_, err := f.orch.GetByID(ctx, doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestOrchestrator_Delete_ConsumedReceiptBlocked(t *testing.T) {
	f := newFixture(NoTax)
	f.accounts.balances[f.safeID] = types.MoneyFromInt(10_000)
	ctx := context.Background()

	// purchase 10 in, sell 8 out; deleting the purchase would leave -8
	purchase := f.newDoc(KindPurchaseInvoice, qty(10), types.MoneyFromInt(50))
	require.NoError(t, f.orch.Create(ctx, purchase))

	sale := f.newDoc(KindSalesInvoice, qty(8), types.MoneyFromInt(90))
	require.NoError(t, f.orch.Create(ctx, sale))

	err := f.orch.Delete(ctx, purchase.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}

type cutoffPeriodGuard struct{ closedBefore time.Time }

func (g *cutoffPeriodGuard) EnsureOpen(_ context.Context, date time.Time) error {
	if date.Before(g.closedBefore) {
		return apperror.NewPeriodClosed(date.Format("2006-01"))
	}
	return nil
}

func TestOrchestrator_Update_StoredDateInClosedPeriod(t *testing.T) {
	// Updating reverses the old effects, so the stored date's period
	// must be open too; a document cannot be moved out of a period
	// that closed after it was posted.
	f := newFixture(NoTax)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(2), types.MoneyFromInt(100))
	require.NoError(t, f.orch.Create(ctx, doc))

	f.orch.periods = &cutoffPeriodGuard{closedBefore: doc.Date.Add(24 * time.Hour)}

	updated, err := f.orch.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	updated.Date = doc.Date.AddDate(0, 1, 0)
	updated.Settlement = NewCashSettlement(CashModeSafe, f.safeID)

	err = f.orch.Update(ctx, updated)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePeriodClosed))
	assert.Equal(t, qty(48), f.stockBalance(), "effects untouched")
}

func TestOrchestrator_Update_ShrinkConsumedReceipt(t *testing.T) {
	f := newFixture(NoTax)
	f.accounts.balances[f.safeID] = types.MoneyFromInt(10_000)
	ctx := context.Background()

	// purchase 10 in, sell 8 out; shrinking the purchase to 9 leaves
	// +1 on hand, shrinking it to 7 would leave -1
	purchase := f.newDoc(KindPurchaseInvoice, qty(10), types.MoneyFromInt(50))
	require.NoError(t, f.orch.Create(ctx, purchase))

	sale := f.newDoc(KindSalesInvoice, qty(8), types.MoneyFromInt(90))
	require.NoError(t, f.orch.Create(ctx, sale))

	updated, err := f.orch.GetByID(ctx, purchase.ID)
	require.NoError(t, err)
	updated.Lines[0].Quantity = qty(9)
	updated.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	require.NoError(t, f.orch.Update(ctx, updated))
	assert.Equal(t, qty(1), f.stockBalance())

	updated, err = f.orch.GetByID(ctx, purchase.ID)
	require.NoError(t, err)
	updated.Lines[0].Quantity = qty(7)
	updated.Settlement = NewCashSettlement(CashModeSafe, f.safeID)
	err = f.orch.Update(ctx, updated)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}

func TestOrchestrator_CashWithoutPartyAccepted(t *testing.T) {
	// A counter-party is only mandatory for credit settlements; a
	// walk-in cash sale carries none.
	f := newFixture(NoTax)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(5), types.MoneyFromInt(100))
	doc.PartyID = id.Nil()

	require.NoError(t, f.orch.Create(ctx, doc))
	assert.True(t, f.accounts.balances[f.safeID].Equal(types.MoneyFromInt(500)))
}

func TestOrchestrator_CreditRequiresParty(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(50))

	doc := f.newDoc(KindSalesInvoice, qty(5), types.MoneyFromInt(100))
	doc.PartyID = id.Nil()
	doc.Settlement = NewCreditSettlement(id.Nil())

	err := f.orch.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestOrchestrator_CreditSettlementTracksPartnerBalance(t *testing.T) {
	f := newFixture(NoTax)
	f.seedStock(qty(50))
	ctx := context.Background()

	doc := f.newDoc(KindSalesInvoice, qty(5), types.MoneyFromInt(100))
	doc.Settlement = NewCreditSettlement(f.partyID)

	require.NoError(t, f.orch.Create(ctx, doc))

	assert.True(t, f.partners.balances[f.partyID].Equal(types.MoneyFromInt(500)), "customer owes the business")
	assert.Zero(t, f.accounts.adjusts)

	require.NoError(t, f.orch.Delete(ctx, doc.ID))
	assert.True(t, f.partners.balances[f.partyID].IsZero())
}
