package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daftar/internal/core/entity"
	"daftar/internal/core/id"
)

type testCatalog struct {
	entity.Catalog
	SKU    *string `db:"sku" json:"sku"`
	Hidden string  `db:"-" json:"-"`
	NoTag  string
}

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	expected := []string{"id", "tenant_id", "version", "code", "name", "deletion_mark", "sku"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Hidden")
	assert.NotContains(t, cols, "NoTag")
}

func TestStructToMap_EmbeddedStructs(t *testing.T) {
	sku := "SKU-42"
	cat := testCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:       id.New(),
				TenantID: id.New(),
				Version:  5,
			},
			Code:         "ITM-00001",
			Name:         "Test Item",
			DeletionMark: true,
		},
		SKU:    &sku,
		Hidden: "not exported",
		NoTag:  "not exported",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, cat.TenantID, m["tenant_id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "ITM-00001", m["code"])
	assert.Equal(t, "Test Item", m["name"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, &sku, m["sku"])

	_, hasHidden := m["-"]
	assert.False(t, hasHidden)
}

func TestStructToMap_PointerAndNonStruct(t *testing.T) {
	cat := &testCatalog{}
	cat.Code = "PTR"

	m := StructToMap(cat)
	assert.Equal(t, "PTR", m["code"])

	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("nope"))
}
