package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/apperror"
	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/types"
	"daftar/internal/domain/trade"
)

type mockRepo struct {
	Repository
	balances map[id.ID]types.Quantity
	created  []entity.StockMovement
	locks    int
}

func (m *mockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	m.created = append(m.created, movements...)
	return nil
}

func (m *mockRepo) GetBalanceForUpdate(_ context.Context, storeID, itemID id.ID) (entity.StockBalance, error) {
	m.locks++
	return entity.StockBalance{StoreID: storeID, ItemID: itemID, Quantity: m.balances[itemID]}, nil
}

func TestRecord_ValidatesMovements(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	bad := entity.NewStockMovement(id.New(), id.New(), "sales_invoice", 1,
		time.Now(), entity.RecordTypeExpense, id.New(), id.New(), types.NewQuantityFromFloat64(0))

	err := svc.Record(ctx, []entity.StockMovement{bad})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Empty(t, repo.created)

	good := bad
	good.Quantity = types.NewQuantityFromFloat64(5)
	require.NoError(t, svc.Record(ctx, []entity.StockMovement{good}))
	assert.Len(t, repo.created, 1)
}

func TestRecord_EmptyIsNoOp(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.Record(context.Background(), nil))
	assert.Empty(t, repo.created)
}

func TestCheckAvailability(t *testing.T) {
	itemID := id.New()
	repo := &mockRepo{balances: map[id.ID]types.Quantity{itemID: types.NewQuantityFromFloat64(10)}}
	svc := NewService(repo)
	ctx := context.Background()
	storeID := id.New()

	demand := func(q float64) []trade.ItemDemand {
		return []trade.ItemDemand{{ItemID: itemID, Quantity: types.NewQuantityFromFloat64(q)}}
	}

	assert.NoError(t, svc.CheckAvailability(ctx, storeID, demand(10)))
	assert.Equal(t, 1, repo.locks, "each check takes a row lock")

	err := svc.CheckAvailability(ctx, storeID, demand(10.5))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}

func TestEnsureNonNegative(t *testing.T) {
	goodItem, badItem := id.New(), id.New()
	repo := &mockRepo{balances: map[id.ID]types.Quantity{
		goodItem: 0,
		badItem:  types.NewQuantityFromFloat64(-2),
	}}
	svc := NewService(repo)
	ctx := context.Background()
	storeID := id.New()

	assert.NoError(t, svc.EnsureNonNegative(ctx, storeID, []id.ID{goodItem}))

	err := svc.EnsureNonNegative(ctx, storeID, []id.ID{goodItem, badItem})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}
