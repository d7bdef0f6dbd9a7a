// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides header CRUD for document entities.
type BaseDocumentRepo[T entity.Identifiable] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T

	// counterpartyCol is the column ListFilter.CounterpartyID filters on
	counterpartyCol string
	// searchCols are matched by ListFilter.Search
	searchCols []string
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T entity.Identifiable](
	txManager *postgres.TxManager,
	tableName, entityName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		newFn:      newFn,
		searchCols: []string{"number", "description"},
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return postgres.Builder()
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new document header and assigns its ID.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, doc T) error {
	data := postgres.StructToMap(doc)
	values := make(map[string]any, len(r.selectCols))
	for _, col := range postgres.Without(r.selectCols, "id") {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return postgres.MapError(err, "insert", r.entityName, "new")
	}
	doc.SetID(id)
	return nil
}

// Update rewrites the document header.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, doc T) error {
	data := postgres.StructToMap(doc)
	values := make(map[string]any, len(r.selectCols))
	for _, col := range postgres.Without(r.selectCols, "id", "created_at") {
		if val, ok := data[col]; ok {
			values[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(values).
		Where(squirrel.Eq{"id": doc.GetID()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "update", r.entityName, doc.GetID())
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "update", r.entityName, doc.GetID())
	}
	return nil
}

// Delete removes the header; item rows cascade.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "delete", r.entityName, id)
	}
	if result.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "delete", r.entityName, id)
	}
	return nil
}

func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves a document header by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return r.findOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": id}), id)
}

// GetForUpdate retrieves a document header by ID with row lock.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, id int64) (T, error) {
	return r.findOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"), id)
}

func (r *BaseDocumentRepo[T]) findOne(ctx context.Context, q squirrel.SelectBuilder, id int64) (T, error) {
	doc := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, postgres.MapError(pgx.ErrNoRows, "get", r.entityName, id)
		}
		return doc, postgres.MapError(err, "get", r.entityName, id)
	}
	return doc, nil
}

// List returns headers newest first, filtered by date range, counterparty and search.
func (r *BaseDocumentRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	return r.list(ctx, r.applyFilter(r.baseSelect(), filter), filter, "date DESC, id DESC")
}

func (r *BaseDocumentRepo[T]) applyFilter(q squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.CounterpartyID != nil && r.counterpartyCol != "" {
		q = q.Where(squirrel.Eq{r.counterpartyCol: *filter.CounterpartyID})
	}
	if filter.Search != "" && len(r.searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := squirrel.Or{}
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	return q
}

func (r *BaseDocumentRepo[T]) list(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter, orderBy string) (domain.ListResult[T], error) {
	filter = filter.Normalize()
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", r.tableName, err)
	}

	sql, args, err := q.
		OrderBy(orderBy).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, postgres.MapError(err, "list", r.entityName, nil)
	}
	return result, nil
}

// ItemStore stores the lines of one document kind.
type ItemStore[I any] struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
	tableName string
	ownerCol  string
	columns   []string
	setID     func(item *I, id int64)
	setOwner  func(item *I, owner int64)
}

// NewItemStore creates an item store for table, whose rows point at their
// document through ownerCol.
func NewItemStore[I any](
	txManager *postgres.TxManager,
	tableName, ownerCol string,
	setID func(item *I, id int64),
	setOwner func(item *I, owner int64),
) *ItemStore[I] {
	return &ItemStore[I]{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
		tableName: tableName,
		ownerCol:  ownerCol,
		columns:   postgres.ExtractDBColumns[I](),
		setID:     setID,
		setOwner:  setOwner,
	}
}

// ListItems implements domain.ItemRepository.
func (s *ItemStore[I]) ListItems(ctx context.Context, docIDs []int64) ([]I, error) {
	items := []I{}
	if len(docIDs) == 0 {
		return items, nil
	}
	sql, args, err := postgres.Builder().
		Select(s.columns...).
		From(s.tableName).
		Where(squirrel.Eq{s.ownerCol: docIDs}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.tableName, err)
	}
	return items, nil
}

// ReplaceItems implements domain.ItemRepository. New rows go in with COPY,
// so it must run inside a transaction.
func (s *ItemStore[I]) ReplaceItems(ctx context.Context, docID int64, items []I) error {
	if err := s.DeleteItems(ctx, docID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	ids, err := s.inserter.ReserveIDs(ctx, s.tableName, len(items))
	if err != nil {
		return err
	}

	rows := make([][]any, len(items))
	for i := range items {
		s.setID(&items[i], ids[i])
		s.setOwner(&items[i], docID)
		rows[i] = postgres.CopyRow(&items[i], s.columns)
	}

	if _, err := s.inserter.CopyFromSlice(ctx, s.tableName, s.columns, rows); err != nil {
		return postgres.MapError(err, "insert", s.tableName, docID)
	}
	return nil
}

// DeleteItems implements domain.ItemRepository.
func (s *ItemStore[I]) DeleteItems(ctx context.Context, docID int64) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1", s.tableName, s.ownerCol), docID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.tableName, err)
	}
	return nil
}
