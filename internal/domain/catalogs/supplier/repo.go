package supplier

import (
	"context"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
)

// Repository stores suppliers.
//
// Update must leave PayableAmount untouched; AdjustPayable is its only writer.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// AdjustPayable adds delta to the supplier's payable under a row lock and
	// returns the new balance.
	AdjustPayable(ctx context.Context, id int64, delta types.Money) (types.Money, error)

	// HasDocuments reports whether purchases, returns or payments reference the supplier.
	HasDocuments(ctx context.Context, id int64) (bool, error)
}
