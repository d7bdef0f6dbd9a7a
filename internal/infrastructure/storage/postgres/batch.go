package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bookkeeper/internal/core/types"
)

// BatchInserter bulk-inserts child rows (document items, journal entries)
// with the COPY protocol.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// ReserveIDs draws n values from the table's id sequence so rows sent through
// COPY can carry their primary keys.
func (b *BatchInserter) ReserveIDs(ctx context.Context, table string, n int) ([]int64, error) {
	if n == 0 {
		return nil, nil
	}
	rows, err := b.txManager.GetQuerier(ctx).Query(ctx,
		"SELECT nextval(pg_get_serial_sequence($1, 'id')) FROM generate_series(1, $2)", table, n)
	if err != nil {
		return nil, fmt.Errorf("reserve ids for %s: %w", table, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("reserve ids for %s: %w", table, err)
	}
	return ids, nil
}

// CopyFromSlice performs bulk insert from a slice of rows.
// It requires a transaction in ctx.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	t := b.txManager.GetTx(ctx)
	if t == nil {
		return 0, fmt.Errorf("CopyFromSlice requires transaction context")
	}
	return t.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
}

// CopyRow orders the db-tagged fields of v by columns for CopyFromSlice.
// Money goes out as text, which COPY parses into NUMERIC.
func CopyRow(v any, columns []string) []any {
	data := StructToMap(v)
	row := make([]any, len(columns))
	for i, col := range columns {
		val := data[col]
		if m, ok := val.(types.Money); ok {
			val = m.String()
		}
		row[i] = val
	}
	return row
}
