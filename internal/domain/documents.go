package domain

import "context"

// HeaderRepository stores document headers.
type HeaderRepository[T any] interface {
	Create(ctx context.Context, doc T) error
	GetByID(ctx context.Context, id int64) (T, error)
	// GetForUpdate reads the header and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (T, error)
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
}

// ItemRepository stores document lines.
type ItemRepository[I any] interface {
	// ListItems returns the lines of all given documents ordered by line ID.
	ListItems(ctx context.Context, docIDs []int64) ([]I, error)
	// ReplaceItems deletes the document's lines and inserts items, assigning IDs in place.
	ReplaceItems(ctx context.Context, docID int64, items []I) error
	DeleteItems(ctx context.Context, docID int64) error
}
