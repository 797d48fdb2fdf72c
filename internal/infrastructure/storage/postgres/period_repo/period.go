// Package period_repo provides the PostgreSQL implementation of the
// fiscal period repository.
package period_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
	"daftar/internal/domain"
	"daftar/internal/domain/periods"
	"daftar/internal/infrastructure/storage/postgres"
)

const periodsTable = "sys_fiscal_periods"

// PeriodRepo implements periods.Repository.
type PeriodRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	cols      []string
}

// NewPeriodRepo creates a new fiscal period repository.
func NewPeriodRepo(txManager *postgres.TxManager) *PeriodRepo {
	return &PeriodRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:      postgres.ExtractDBColumns[periods.Period](),
	}
}

func (r *PeriodRepo) tenantID(ctx context.Context) (id.ID, error) {
	tid, err := tenant.GetTenantID(ctx)
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("tenant scope is required").WithCause(err)
	}
	return tid, nil
}

func (r *PeriodRepo) baseSelect(tid id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select(r.cols...).
		From(periodsTable).
		Where(squirrel.Eq{"tenant_id": tid})
}

// Create inserts a new period.
func (r *PeriodRepo) Create(ctx context.Context, period *periods.Period) error {
	data := postgres.StructToMap(period)

	q := r.builder.Insert(periodsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert period: %w", err)
	}

	return nil
}

// Update writes the period with optimistic locking.
func (r *PeriodRepo) Update(ctx context.Context, period *periods.Period) error {
	tid, err := r.tenantID(ctx)
	if err != nil {
		return err
	}

	data := postgres.StructToMap(period)
	version, _ := data["version"].(int)

	delete(data, "id")
	delete(data, "tenant_id")
	delete(data, "version")

	q := r.builder.
		Update(periodsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": period.ID}).
		Where(squirrel.Eq{"tenant_id": tid}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update period: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("fiscal period", period.ID.String())
	}

	return nil
}

// GetByID retrieves a period by ID.
func (r *PeriodRepo) GetByID(ctx context.Context, periodID id.ID) (*periods.Period, error) {
	tid, err := r.tenantID(ctx)
	if err != nil {
		return nil, err
	}

	q := r.baseSelect(tid).
		Where(squirrel.Eq{"id": periodID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var period periods.Period
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &period, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fiscal period", periodID.String())
		}
		return nil, fmt.Errorf("get period: %w", err)
	}

	return &period, nil
}

// FindByDate returns the period covering the date, or NotFound.
// Coverage is inclusive on both ends, by calendar date.
func (r *PeriodRepo) FindByDate(ctx context.Context, date time.Time) (*periods.Period, error) {
	tid, err := r.tenantID(ctx)
	if err != nil {
		return nil, err
	}

	day := date.Format("2006-01-02")

	q := r.baseSelect(tid).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var period periods.Period
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &period, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("fiscal period", day)
		}
		return nil, fmt.Errorf("find period by date: %w", err)
	}

	return &period, nil
}

// HasOverlap reports whether any other period intersects the range.
func (r *PeriodRepo) HasOverlap(ctx context.Context, start, end time.Time, excludeID id.ID) (bool, error) {
	tid, err := r.tenantID(ctx)
	if err != nil {
		return false, err
	}

	q := r.builder.
		Select("1").
		From(periodsTable).
		Where(squirrel.Eq{"tenant_id": tid}).
		Where(squirrel.LtOrEq{"start_date": end.Format("2006-01-02")}).
		Where(squirrel.GtOrEq{"end_date": start.Format("2006-01-02")})

	if !id.IsNil(excludeID) {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}

	q = q.Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}

	return true, nil
}

// List retrieves periods ordered by start date, newest first.
func (r *PeriodRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*periods.Period], error) {
	result := domain.ListResult[*periods.Period]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	tid, err := r.tenantID(ctx)
	if err != nil {
		return result, err
	}

	q := r.baseSelect(tid)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("start_date DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list periods: %w", err)
	}

	return result, nil
}

var _ periods.Repository = (*PeriodRepo)(nil)
