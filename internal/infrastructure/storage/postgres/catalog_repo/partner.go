package catalog_repo

import (
	"context"
	"fmt"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/core/types"
	"daftar/internal/domain/catalogs/partner"
	"daftar/internal/infrastructure/storage/postgres"
)

const partnerTable = "cat_partners"

// PartnerRepo implements partner.Repository.
type PartnerRepo struct {
	*BaseCatalogRepo[*partner.Partner]
}

// NewPartnerRepo creates a new partner repository.
func NewPartnerRepo(txManager *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*partner.Partner](
			txManager,
			partnerTable,
			postgres.ExtractDBColumns[partner.Partner](),
			func() *partner.Partner { return &partner.Partner{} },
		),
	}
}

// AdjustBalance atomically adds delta to the partner balance.
// The increment form avoids read-modify-write races between concurrent
// document postings.
func (r *PartnerRepo) AdjustBalance(ctx context.Context, partnerID id.ID, delta types.Money) error {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return err
	}

	sql := `
		UPDATE cat_partners
		SET current_balance = current_balance + $1
		WHERE id = $2 AND tenant_id = $3
	`

	result, err := r.TxManager().GetQuerier(ctx).Exec(ctx, sql, delta, partnerID, tid)
	if err != nil {
		return fmt.Errorf("adjust partner balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("partner", partnerID.String())
	}

	return nil
}

// GetBalanceForUpdate reads the balance under a row lock. The lock is held
// until the surrounding transaction commits.
func (r *PartnerRepo) GetBalanceForUpdate(ctx context.Context, partnerID id.ID) (types.Money, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return types.Zero(), err
	}

	sql := `
		SELECT current_balance
		FROM cat_partners
		WHERE id = $1 AND tenant_id = $2
		FOR UPDATE
	`

	var balance types.Money
	err = r.TxManager().GetQuerier(ctx).QueryRow(ctx, sql, partnerID, tid).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return types.Zero(), apperror.NewNotFound("partner", partnerID.String())
		}
		return types.Zero(), fmt.Errorf("get partner balance: %w", err)
	}

	return balance, nil
}

var _ partner.Repository = (*PartnerRepo)(nil)
