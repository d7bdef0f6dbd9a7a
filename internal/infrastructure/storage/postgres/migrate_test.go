package postgres

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableDDL returns the CREATE TABLE statement for table from the embedded schema.
func tableDDL(t *testing.T, table string) string {
	t.Helper()
	schema, err := migrations.ReadFile("migrations/00001_schema.sql")
	require.NoError(t, err)

	m := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\n\);`).FindSubmatch(schema)
	require.NotNil(t, m, table)
	return string(m[1])
}

func TestSchema_JournalEntriesAllowZeroAmounts(t *testing.T) {
	ddl := tableDDL(t, "journal_entries")
	assert.Contains(t, ddl, "CHECK (amount >= 0)")
	assert.NotContains(t, ddl, "CHECK (amount > 0)")
}

func TestSchema_ProductStockMayGoNegative(t *testing.T) {
	ddl := tableDDL(t, "products")
	assert.NotRegexp(t, `stock[^,]*CHECK`, ddl)
}

func TestSchema_SalesReturnsStoreAppliedReceivable(t *testing.T) {
	assert.Contains(t, tableDDL(t, "sales_returns"), "receivable_applied")
}
