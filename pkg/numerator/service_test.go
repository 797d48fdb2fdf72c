package numerator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/id"
)

type mockRow struct {
	val int64
	err error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.val
		}
	}
	return nil
}

type mockQuerier struct {
	counter int64
	bump    func(args []any) int64
	calls   int
}

func (q *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	q.calls++
	if q.bump != nil {
		q.counter = q.bump(args)
	} else {
		q.counter++
	}
	return &mockRow{val: q.counter}
}

func TestNextCode_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	tenantID := id.New()
	cfg := DefaultConfig("INV")

	code, err := svc.NextCode(context.Background(), tenantID, cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", code)

	code, err = svc.NextCode(context.Background(), tenantID, cfg, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "INV-00002", code)

	assert.Equal(t, 2, q.calls, "strict strategy hits the DB on every call")
}

func TestNextCode_Cached_ReservesRanges(t *testing.T) {
	q := &mockQuerier{
		bump: func(args []any) int64 {
			// args[2] is the range size for the cached upsert
			size, _ := args[2].(int64)
			return size
		},
	}
	svc := New(q)
	tenantID := id.New()
	cfg := DefaultConfig("ORD")
	opts := &Options{Strategy: StrategyCached, RangeSize: 3}

	for i := 1; i <= 3; i++ {
		code, err := svc.NextCode(context.Background(), tenantID, cfg, opts, time.Now())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%05d", i), code)
	}
	assert.Equal(t, 1, q.calls, "one reservation covers the whole range")
}

func TestNextCode_ResetPeriods(t *testing.T) {
	svc := New(&mockQuerier{})
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV", svc.buildKey(DefaultConfig("INV"), period))
	assert.Equal(t, "INV_2026", svc.buildKey(Config{Prefix: "INV", ResetPeriod: "year"}, period))
	assert.Equal(t, "INV_2026_03", svc.buildKey(Config{Prefix: "INV", ResetPeriod: "month"}, period))
}

func TestFormatCode_PadWidth(t *testing.T) {
	svc := New(&mockQuerier{})

	assert.Equal(t, "PIN-00042", svc.formatCode(DefaultConfig("PIN"), 42))
	assert.Equal(t, "PIN-123456", svc.formatCode(DefaultConfig("PIN"), 123456))
	assert.Equal(t, "SRN-007", svc.formatCode(Config{Prefix: "SRN", PadWidth: 3}, 7))
}

func TestParseCode(t *testing.T) {
	assert.Equal(t, int64(42), ParseCode("INV-00042"))
	assert.Equal(t, int64(7), ParseCode("SRN-2026-007"), "counter follows the last dash")
	assert.Equal(t, int64(-1), ParseCode("garbage"))
	assert.Equal(t, int64(-1), ParseCode("INV-"))
	assert.Equal(t, int64(-1), ParseCode("INV-abc"))
}
