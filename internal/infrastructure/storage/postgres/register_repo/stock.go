// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"daftar/internal/core/entity"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/types"
	"daftar/internal/domain/registers/stock"
	"daftar/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	stockBalancesTable  = "reg_stock_balances"
)

// StockRepo implements stock.Repository. Movement writes and the balance
// cache are maintained in the same transaction so the cache never drifts
// from the movement log.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var movementColumns = []string{
	"line_id", "tenant_id", "recorder_id", "recorder_type", "recorder_version",
	"period", "record_type",
	"store_id", "item_id", "quantity", "created_at",
}

// CreateMovements batch inserts movements and applies their signed
// quantities to the balance cache. Must be called inside a transaction.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.TenantID, m.RecorderID, m.RecorderType, m.RecorderVersion,
				m.Period, m.RecordType,
				m.StoreID, m.ItemID, m.Quantity, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
	} else {
		// Fallback: plain insert. Prefer calling CreateMovements within tx.
		q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
		for _, m := range movements {
			q = q.Values(
				m.LineID, m.TenantID, m.RecorderID, m.RecorderType, m.RecorderVersion,
				m.Period, m.RecordType,
				m.StoreID, m.ItemID, m.Quantity, m.CreatedAt,
			)
		}

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert movements: %w", err)
		}
	}

	return r.applyToBalances(ctx, movements, 1)
}

// DeleteMovementsByRecorder removes the recorder's movements below the
// given effect version and rolls them out of the balance cache.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return err
	}

	sql := `
		DELETE FROM reg_stock_movements
		WHERE tenant_id = $1 AND recorder_id = $2 AND recorder_version < $3
		RETURNING line_id, tenant_id, recorder_id, recorder_type, recorder_version,
		          period, record_type, store_id, item_id, quantity, created_at
	`

	var deleted []entity.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &deleted, sql, tid, recorderID, beforeVersion); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	if len(deleted) == 0 {
		return nil
	}

	return r.applyToBalances(ctx, deleted, -1)
}

// applyToBalances upserts aggregated movement deltas into the balance
// cache. direction is +1 for recording and -1 for reversal.
func (r *StockRepo) applyToBalances(ctx context.Context, movements []entity.StockMovement, direction int64) error {
	type balanceKey struct {
		tenantID id.ID
		storeID  id.ID
		itemID   id.ID
	}

	deltas := make(map[balanceKey]types.Quantity, len(movements))
	lastMoved := make(map[balanceKey]time.Time, len(movements))
	order := make([]balanceKey, 0, len(movements))

	for _, m := range movements {
		key := balanceKey{tenantID: m.TenantID, storeID: m.StoreID, itemID: m.ItemID}
		if _, seen := deltas[key]; !seen {
			order = append(order, key)
		}
		deltas[key] += types.Quantity(direction) * m.SignedQuantity()
		if m.Period.After(lastMoved[key]) {
			lastMoved[key] = m.Period
		}
	}

	upsertSQL := `
		INSERT INTO reg_stock_balances (tenant_id, store_id, item_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (tenant_id, store_id, item_id) DO UPDATE SET
			quantity = reg_stock_balances.quantity + EXCLUDED.quantity,
			last_movement_at = GREATEST(reg_stock_balances.last_movement_at, EXCLUDED.last_movement_at),
			updated_at = NOW()
	`

	// Single round-trip when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		queries := make([]postgres.BatchQuery, 0, len(order))
		for _, key := range order {
			queries = append(queries, postgres.BatchQuery{
				SQL:  upsertSQL,
				Args: []any{key.tenantID, key.storeID, key.itemID, deltas[key], lastMoved[key]},
			})
		}
		executor := postgres.NewBatchExecutor(r.txManager)
		if err := executor.ExecuteBatch(ctx, queries); err != nil {
			return fmt.Errorf("update balances: %w", err)
		}
		return nil
	}

	querier := r.txManager.GetQuerier(ctx)
	for _, key := range order {
		if _, err := querier.Exec(ctx, upsertSQL, key.tenantID, key.storeID, key.itemID, deltas[key], lastMoved[key]); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
	}

	return nil
}

// GetMovementsByRecorder retrieves movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"tenant_id": tid}).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetBalance returns current balance for store+item. A missing row means
// zero stock.
func (r *StockRepo) GetBalance(ctx context.Context, storeID, itemID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return balance, err
	}

	q := r.builder.Select(
		"tenant_id", "store_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{
			"tenant_id": tid,
			"store_id":  storeID,
			"item_id":   itemID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				TenantID: tid,
				StoreID:  storeID,
				ItemID:   itemID,
				Quantity: 0,
			}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns balance with pessimistic lock. The lock is
// held until the surrounding transaction commits.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, storeID, itemID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return balance, err
	}

	sql := `
		SELECT tenant_id, store_id, item_id, quantity, last_movement_at, updated_at
		FROM reg_stock_balances
		WHERE tenant_id = $1 AND store_id = $2 AND item_id = $3
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, tid, storeID, itemID); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				TenantID: tid,
				StoreID:  storeID,
				ItemID:   itemID,
				Quantity: 0,
			}, nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// GetBalancesByStore returns balances for a store.
func (r *StockRepo) GetBalancesByStore(ctx context.Context, storeID id.ID, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	q := r.builder.Select(
		"tenant_id", "store_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"tenant_id": tid}).
		Where(squirrel.Eq{"store_id": storeID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}

	q = q.OrderBy("item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetBalancesByItem returns balances for an item across stores.
func (r *StockRepo) GetBalancesByItem(ctx context.Context, itemID id.ID) ([]entity.StockBalance, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	q := r.builder.Select(
		"tenant_id", "store_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"tenant_id": tid}).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("store_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetMovementHistory returns movement history for an item.
func (r *StockRepo) GetMovementHistory(ctx context.Context, itemID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return nil, err
	}

	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"tenant_id": tid}).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.StoreID != nil {
		q = q.Where(squirrel.Eq{"store_id": *filter.StoreID})
	}

	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// RecalculateBalances rebuilds the balance cache from movements for the
// given scope. With nil arguments it rebuilds the whole tenant.
func (r *StockRepo) RecalculateBalances(ctx context.Context, storeID, itemID *id.ID) error {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return err
	}

	scope := "tenant_id = $1"
	args := []any{tid}
	argIndex := 2

	if storeID != nil {
		scope += fmt.Sprintf(" AND store_id = $%d", argIndex)
		args = append(args, *storeID)
		argIndex++
	}
	if itemID != nil {
		scope += fmt.Sprintf(" AND item_id = $%d", argIndex)
		args = append(args, *itemID)
	}

	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM reg_stock_balances WHERE " + scope
	if _, err := querier.Exec(ctx, deleteSQL, args...); err != nil {
		return fmt.Errorf("clear balances: %w", err)
	}

	rebuildSQL := fmt.Sprintf(`
		INSERT INTO reg_stock_balances (tenant_id, store_id, item_id, quantity, last_movement_at, updated_at)
		SELECT tenant_id, store_id, item_id,
		       SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
		       MAX(period), NOW()
		FROM reg_stock_movements
		WHERE %s
		GROUP BY tenant_id, store_id, item_id
	`, scope)

	if _, err := querier.Exec(ctx, rebuildSQL, args...); err != nil {
		return fmt.Errorf("rebuild balances: %w", err)
	}

	return nil
}

// BalanceAtDate sums movements up to and including a date.
func (r *StockRepo) BalanceAtDate(ctx context.Context, storeID, itemID id.ID, date time.Time) (types.Quantity, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return 0, err
	}

	sql := `
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_movements
		WHERE tenant_id = $1
		  AND store_id = $2
		  AND item_id = $3
		  AND period <= $4
	`

	var balance int64
	querier := r.txManager.GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, tid, storeID, itemID, date).Scan(&balance)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("calculate balance at date: %w", err)
	}

	return types.Quantity(balance), nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
