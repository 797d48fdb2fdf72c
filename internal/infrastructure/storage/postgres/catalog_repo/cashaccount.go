package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/types"
	"daftar/internal/domain/catalogs/cashaccount"
	"daftar/internal/infrastructure/storage/postgres"
)

const cashAccountTable = "cat_cash_accounts"

// CashAccountRepo implements cashaccount.Repository.
type CashAccountRepo struct {
	*BaseCatalogRepo[*cashaccount.Account]
}

// NewCashAccountRepo creates a new cash account repository.
func NewCashAccountRepo(txManager *postgres.TxManager) *CashAccountRepo {
	return &CashAccountRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*cashaccount.Account](
			txManager,
			cashAccountTable,
			postgres.ExtractDBColumns[cashaccount.Account](),
			func() *cashaccount.Account { return &cashaccount.Account{} },
		),
	}
}

// AdjustBalance atomically adds delta to the account balance.
func (r *CashAccountRepo) AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return err
	}

	sql := `
		UPDATE cat_cash_accounts
		SET current_balance = current_balance + $1
		WHERE id = $2 AND tenant_id = $3
	`

	result, err := r.TxManager().GetQuerier(ctx).Exec(ctx, sql, delta, accountID, tid)
	if err != nil {
		return fmt.Errorf("adjust account balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("cash account", accountID.String())
	}

	return nil
}

// GetBalanceForUpdate reads the balance under a row lock. Callers use this
// before negative adjustments so the non-negative check holds until commit.
func (r *CashAccountRepo) GetBalanceForUpdate(ctx context.Context, accountID id.ID) (types.Money, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return types.Zero(), err
	}

	sql := `
		SELECT current_balance
		FROM cat_cash_accounts
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`

	var balance types.Money
	err = r.TxManager().GetQuerier(ctx).QueryRow(ctx, sql, accountID, tid).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return types.Zero(), apperror.NewNotFound("cash account", accountID.String())
		}
		return types.Zero(), fmt.Errorf("get account balance: %w", err)
	}

	return balance, nil
}

// FindSafeByBranch returns the active safe for a branch.
func (r *CashAccountRepo) FindSafeByBranch(ctx context.Context, branchID id.ID) (*cashaccount.Account, error) {
	q, err := r.TenantScoped(ctx)
	if err != nil {
		return nil, err
	}
	q = q.Where(squirrel.Eq{"type": cashaccount.TypeSafe}).
		Where(squirrel.Eq{"branch_id": branchID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	account, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("safe", branchID.String())
		}
		return nil, err
	}
	return account, nil
}

var _ cashaccount.Repository = (*CashAccountRepo)(nil)
