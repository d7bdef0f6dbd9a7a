package ledger

import (
	"context"
	"time"

	"bookkeeper/internal/domain"
)

// Filter narrows journal listings.
type Filter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	Type        *TransactionType
	AccountID   *int64
	ReferenceID string
	Limit       int
	Offset      int
}

// Repository stores transactions and their journal entries.
type Repository interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	// CreateEntries inserts entries and assigns their IDs in place.
	CreateEntries(ctx context.Context, entries []JournalEntry) error

	GetByID(ctx context.Context, id int64) (*Transaction, error)
	GetByReference(ctx context.Context, referenceID string) (*Transaction, error)
	ListEntries(ctx context.Context, transactionIDs []int64) ([]JournalEntry, error)
	List(ctx context.Context, filter Filter) (domain.ListResult[*Transaction], error)

	DeleteEntries(ctx context.Context, transactionID int64) error
	DeleteTransaction(ctx context.Context, transactionID int64) error
}
