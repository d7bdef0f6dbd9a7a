// Package ledger_repo provides the PostgreSQL implementation of the journal.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

const (
	transactionsTable = "transactions"
	entriesTable      = "journal_entries"
)

var (
	transactionCols = postgres.ExtractDBColumns[ledger.Transaction]()
	entryCols       = postgres.ExtractDBColumns[ledger.JournalEntry]()
)

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	builder   squirrel.StatementBuilderType
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		builder:   postgres.Builder(),
	}
}

func (r *LedgerRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateTransaction inserts the header; a reused reference ID is a duplicate.
func (r *LedgerRepo) CreateTransaction(ctx context.Context, t *ledger.Transaction) error {
	sql, args, err := r.builder.
		Insert(transactionsTable).
		Columns("date", "type", "reference_id", "total_amount", "description", "created_at").
		Values(t.Date, t.Type, t.ReferenceID, t.TotalAmount, t.Description, t.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&t.ID); err != nil {
		return postgres.MapError(err, "insert", "transaction", t.ReferenceID)
	}
	return nil
}

// CreateEntries bulk-inserts entries with COPY and assigns their IDs.
func (r *LedgerRepo) CreateEntries(ctx context.Context, entries []ledger.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids, err := r.inserter.ReserveIDs(ctx, entriesTable, len(entries))
	if err != nil {
		return err
	}

	rows := make([][]any, len(entries))
	for i := range entries {
		entries[i].ID = ids[i]
		rows[i] = postgres.CopyRow(&entries[i], entryCols)
	}

	if _, err := r.inserter.CopyFromSlice(ctx, entriesTable, entryCols, rows); err != nil {
		return postgres.MapError(err, "insert", "journal entry", entries[0].TransactionID)
	}
	return nil
}

func (r *LedgerRepo) getOne(ctx context.Context, where squirrel.Sqlizer, key any) (*ledger.Transaction, error) {
	sql, args, err := r.builder.
		Select(transactionCols...).
		From(transactionsTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t ledger.Transaction
	if err := pgxscan.Get(ctx, r.querier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, postgres.MapError(pgx.ErrNoRows, "get", "transaction", key)
		}
		return nil, postgres.MapError(err, "get", "transaction", key)
	}
	return &t, nil
}

// GetByID returns the transaction header.
func (r *LedgerRepo) GetByID(ctx context.Context, id int64) (*ledger.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

// GetByReference returns the transaction header carrying referenceID.
func (r *LedgerRepo) GetByReference(ctx context.Context, referenceID string) (*ledger.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"reference_id": referenceID}, referenceID)
}

// ListEntries returns the entries of the given transactions ordered by ID.
func (r *LedgerRepo) ListEntries(ctx context.Context, transactionIDs []int64) ([]ledger.JournalEntry, error) {
	entries := []ledger.JournalEntry{}
	if len(transactionIDs) == 0 {
		return entries, nil
	}
	sql, args, err := r.builder.
		Select(entryCols...).
		From(entriesTable).
		Where(squirrel.Eq{"transaction_id": transactionIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// List returns transaction headers newest first.
func (r *LedgerRepo) List(ctx context.Context, f ledger.Filter) (domain.ListResult[*ledger.Transaction], error) {
	page := domain.ListFilter{Limit: f.Limit, Offset: f.Offset}.Normalize()
	result := domain.ListResult[*ledger.Transaction]{
		Items:  []*ledger.Transaction{},
		Limit:  page.Limit,
		Offset: page.Offset,
	}

	q := r.builder.Select(transactionCols...).From(transactionsTable + " t")
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"t.date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"t.date": *f.DateTo})
	}
	if f.Type != nil {
		q = q.Where(squirrel.Eq{"t.type": *f.Type})
	}
	if f.ReferenceID != "" {
		q = q.Where(squirrel.Eq{"t.reference_id": f.ReferenceID})
	}
	if f.AccountID != nil {
		q = q.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM journal_entries e WHERE e.transaction_id = t.id AND e.ledger_account_id = ?)",
			*f.AccountID))
	}

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count transactions: %w", err)
	}

	sql, args, err := q.
		OrderBy("t.date DESC", "t.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list transactions: %w", err)
	}
	return result, nil
}

// DeleteEntries removes every entry of the transaction.
func (r *LedgerRepo) DeleteEntries(ctx context.Context, transactionID int64) error {
	if _, err := r.querier(ctx).Exec(ctx,
		`DELETE FROM journal_entries WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("delete journal entries: %w", err)
	}
	return nil
}

// DeleteTransaction removes the transaction header.
func (r *LedgerRepo) DeleteTransaction(ctx context.Context, transactionID int64) error {
	result, err := r.querier(ctx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return postgres.MapError(err, "delete", "transaction", transactionID)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "delete", "transaction", transactionID)
	}
	return nil
}
