package catalog_repo

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daftar/internal/core/id"
	"daftar/internal/core/tenant"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "tenant_id", "code", "name"}, func() any { return nil })
}

func tenantCtx(t *testing.T) (context.Context, id.ID) {
	t.Helper()
	tid := id.New()
	ctx := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: tid, Name: "test"})
	return ctx, tid
}

func TestBaseCatalogRepo_TenantScopedSelect(t *testing.T) {
	repo := newTestRepo()
	ctx, tid := tenantCtx(t)

	q, err := repo.TenantScoped(ctx)
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, tenant_id, code, name FROM test_table WHERE tenant_id = $1", sql)
	// squirrel unwraps driver.Valuer args, so the uuid arrives as its
	// string form
	require.Len(t, args, 1)
	assert.Equal(t, tid.String(), args[0])
}

func TestBaseCatalogRepo_TenantScoped_NoTenant(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.TenantScoped(context.Background())
	assert.Error(t, err)
}

func TestBaseCatalogRepo_DeleteSQL(t *testing.T) {
	repo := newTestRepo()
	entityID := id.New()

	q := repo.Builder().
		Delete("test_table").
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM test_table WHERE id = $1", sql)
	require.Len(t, args, 1)
	assert.Equal(t, entityID.String(), args[0])
}

func TestBaseCatalogRepo_ParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "name ASC", false},
		{"code", "code ASC", false},
		{"-code", "code DESC", false},
		{"+name", "name ASC", false},
		{"drop table", "", true},
		{"-", "", true},
	}

	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "orderBy %q", tt.in)
			continue
		}
		require.NoError(t, err, "orderBy %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
