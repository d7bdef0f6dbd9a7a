package category

import (
	"context"

	"bookkeeper/internal/domain"
)

// Repository stores categories.
type Repository interface {
	domain.CatalogRepository[*Category]

	// HasChildren reports whether any subcategory points at id.
	HasChildren(ctx context.Context, id int64) (bool, error)

	// HasProducts reports whether any product uses id as category or subcategory.
	HasProducts(ctx context.Context, id int64) (bool, error)
}
