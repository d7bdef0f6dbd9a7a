// Package category provides the product category catalog.
// Categories form a two-level tree: a category with a parent is a subcategory.
package category

import (
	"context"
	"strings"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
)

// Category groups products for browsing and reporting.
type Category struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`

	// ParentID is set for subcategories
	ParentID *int64 `db:"parent_id" json:"parentId,omitempty"`
}

// IsSubcategory reports whether the category has a parent.
func (c *Category) IsSubcategory() bool {
	return c.ParentID != nil
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.ParentID != nil && c.ID != 0 && *c.ParentID == c.ID {
		return apperror.NewValidation("category cannot be its own parent").WithDetail("field", "parentId")
	}
	return nil
}
