package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
)

type testDoc struct {
	entity.Document
	SupplierID int64       `db:"supplier_id"`
	Amount     types.Money `db:"amount"`
	Items      []int64     `db:"-"`
	Note       string
}

func TestExtractDBColumns_EmbeddedDocument(t *testing.T) {
	cols := ExtractDBColumns[testDoc]()

	assert.Equal(t, []string{
		"id", "created_at", "updated_at", "number", "date", "description", "supplier_id", "amount",
	}, cols)
}

func TestStructToMap_EmbeddedDocument(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	doc := &testDoc{
		Document: entity.Document{
			BaseEntity: entity.BaseEntity{ID: 7},
			Number:     "PUR-2024-00001",
			Date:       date,
		},
		SupplierID: 3,
		Amount:     types.MustMoney("12.50"),
		Items:      []int64{1},
		Note:       "ignored",
	}

	m := StructToMap(doc)

	assert.Equal(t, int64(7), m["id"])
	assert.Equal(t, "PUR-2024-00001", m["number"])
	assert.Equal(t, date, m["date"])
	assert.Equal(t, int64(3), m["supplier_id"])
	assert.True(t, types.MustMoney("12.5").Equal(m["amount"].(types.Money)))
	assert.NotContains(t, m, "Items")
	assert.NotContains(t, m, "Note")
	assert.Len(t, m, 8)
}

func TestWithout(t *testing.T) {
	cols := []string{"id", "created_at", "name", "payable_amount"}

	assert.Equal(t, []string{"created_at", "name"}, Without(cols, "id", "payable_amount"))
	assert.Equal(t, cols, Without(cols))
}
