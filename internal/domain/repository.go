// Package domain provides types shared by the domain packages.
package domain

import (
	"time"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches names (case-insensitive substring)
	Search string

	// DateFrom and DateTo bound document dates, both inclusive
	DateFrom *time.Time
	DateTo   *time.Time

	// CounterpartyID filters documents by supplier, sale or account depending on the list
	CounterpartyID *int64

	// ParentID filters hierarchical catalogs (subcategories of a category, accounts of a group)
	ParentID *int64

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: DefaultLimit}
}

// Normalize clamps pagination into the supported range.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// InRange reports whether t falls within the filter's date bounds.
func (f ListFilter) InRange(t time.Time) bool {
	if f.DateFrom != nil && t.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.After(*f.DateTo) {
		return false
	}
	return true
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Page slices items according to the filter's pagination.
func Page[T any](items []T, f ListFilter) ListResult[T] {
	f = f.Normalize()
	total := len(items)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return ListResult[T]{Items: page, TotalCount: int64(total), Limit: f.Limit, Offset: f.Offset}
}
