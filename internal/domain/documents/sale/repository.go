package sale

import (
	"context"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
)

// Repository stores sales and their items.
// Create and Update write PayableAmount as given; collections and returns move
// it through AdjustReceivable.
type Repository interface {
	domain.HeaderRepository[*Sale]
	domain.ItemRepository[Item]

	// AdjustReceivable adds delta to the sale's payable under a row lock and
	// returns the new balance.
	AdjustReceivable(ctx context.Context, saleID int64, delta types.Money) (types.Money, error)

	// HasDependents reports whether collections or sales returns reference the sale.
	HasDependents(ctx context.Context, saleID int64) (bool, error)

	// ListOutstanding returns credit sales with a positive payable, oldest first.
	ListOutstanding(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)
}

// CollectionRepository stores receivable collections.
// List honours ListFilter.CounterpartyID as the sale filter.
type CollectionRepository interface {
	domain.HeaderRepository[*Collection]
}
