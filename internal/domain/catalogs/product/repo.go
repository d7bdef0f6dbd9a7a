package product

import (
	"context"

	"bookkeeper/internal/domain"
)

// Repository stores products.
type Repository interface {
	domain.CatalogRepository[*Product]

	// HasMovements reports whether any document line references the product.
	HasMovements(ctx context.Context, id int64) (bool, error)
}
