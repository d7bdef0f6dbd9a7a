// Package product provides the product catalog.
//
// Stock and Price form the product's inventory position. They are given at
// creation as the opening position and afterwards move through postings in the
// inventory ledger.
package product

import (
	"context"
	"strings"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
)

// Product is a stock-keeping item.
type Product struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`

	CategoryID    *int64 `db:"category_id" json:"categoryId,omitempty"`
	SubcategoryID *int64 `db:"subcategory_id" json:"subcategoryId,omitempty"`

	// Stock is the on-hand quantity
	Stock int64 `db:"stock" json:"stock"`

	// Price is the weighted-average unit cost
	Price types.Money `db:"price" json:"price"`
}

// Value returns stock valued at the weighted-average cost.
func (p *Product) Value() types.Money {
	return types.LineTotal(p.Stock, p.Price)
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").WithDetail("field", "stock")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	if p.SubcategoryID != nil && p.CategoryID == nil {
		return apperror.NewValidation("subcategory requires a category").WithDetail("field", "categoryId")
	}
	return nil
}
