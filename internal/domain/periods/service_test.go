package periods

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/apperror"
	"daftar/internal/core/id"
	"daftar/internal/domain"
)

type fakeRepo struct {
	periods map[id.ID]*Period
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{periods: make(map[id.ID]*Period)}
}

func (r *fakeRepo) Create(_ context.Context, p *Period) error {
	cp := *p
	r.periods[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p *Period) error {
	if _, ok := r.periods[p.ID]; !ok {
		return apperror.NewNotFound("period", p.ID.String())
	}
	cp := *p
	r.periods[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, periodID id.ID) (*Period, error) {
	p, ok := r.periods[periodID]
	if !ok {
		return nil, apperror.NewNotFound("period", periodID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) FindByDate(_ context.Context, date time.Time) (*Period, error) {
	for _, p := range r.periods {
		if p.Contains(date) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("period", date.Format("2006-01-02"))
}

func (r *fakeRepo) HasOverlap(_ context.Context, start, end time.Time, excludeID id.ID) (bool, error) {
	for _, p := range r.periods {
		if p.ID == excludeID {
			continue
		}
		if !end.Before(p.StartDate) && !start.After(p.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Period], error) {
	var items []*Period
	for _, p := range r.periods {
		cp := *p
		items = append(items, &cp)
	}
	return domain.ListResult[*Period]{Items: items, TotalCount: int64(len(items))}, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func august(t *testing.T, svc *Service) *Period {
	t.Helper()
	p := New(id.New(), "2026-08", date(2026, 8, 1), date(2026, 8, 31))
	require.NoError(t, svc.Create(context.Background(), p))
	return p
}

func TestEnsureOpen(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	august(t, svc)

	assert.NoError(t, svc.EnsureOpen(ctx, date(2026, 8, 15)))
	assert.NoError(t, svc.EnsureOpen(ctx, date(2026, 8, 1)), "range is inclusive")
	assert.NoError(t, svc.EnsureOpen(ctx, date(2026, 8, 31)), "range is inclusive")

	err := svc.EnsureOpen(ctx, date(2026, 9, 1))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNoOpenPeriod), "no period covers the date")
}

func TestCloseBlocksPosting(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	p := august(t, svc)

	require.NoError(t, svc.Close(ctx, p.ID))

	err := svc.EnsureOpen(ctx, date(2026, 8, 15))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePeriodClosed))

	// closing twice is a conflict
	err = svc.Close(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestReopen(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	p := august(t, svc)

	require.NoError(t, svc.Close(ctx, p.ID))
	require.NoError(t, svc.Reopen(ctx, p.ID))

	assert.NoError(t, svc.EnsureOpen(ctx, date(2026, 8, 15)))

	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ClosedAt)
	assert.Empty(t, stored.ClosedBy)
}

func TestCreate_RejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()
	august(t, svc)

	overlapping := New(id.New(), "late-august", date(2026, 8, 20), date(2026, 9, 10))
	err := svc.Create(ctx, overlapping)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	adjacent := New(id.New(), "2026-09", date(2026, 9, 1), date(2026, 9, 30))
	assert.NoError(t, svc.Create(ctx, adjacent))
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	inverted := New(id.New(), "backwards", date(2026, 8, 31), date(2026, 8, 1))
	err := svc.Create(ctx, inverted)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	unnamed := New(id.New(), "", date(2026, 8, 1), date(2026, 8, 31))
	assert.Error(t, svc.Create(ctx, unnamed))
}
