// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
)

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult converts a domain page.
func FromListResult[T any](r domain.ListResult[T]) ListResponse[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- Common Filters ---

// ListQuery contains the query parameters shared by list endpoints.
type ListQuery struct {
	Search         string `form:"search"`
	From           string `form:"from"`
	To             string `form:"to"`
	CounterpartyID *int64 `form:"counterpartyId" binding:"omitempty,min=1"`
	ParentID       *int64 `form:"parentId" binding:"omitempty,min=1"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into a domain filter.
func (q ListQuery) ToFilter() (domain.ListFilter, error) {
	from, err := ParseOptionalDate("from", q.From)
	if err != nil {
		return domain.ListFilter{}, err
	}
	to, err := ParseOptionalDate("to", q.To)
	if err != nil {
		return domain.ListFilter{}, err
	}
	return domain.ListFilter{
		Search:         q.Search,
		DateFrom:       from,
		DateTo:         to,
		CounterpartyID: q.CounterpartyID,
		ParentID:       q.ParentID,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}.Normalize(), nil
}

// ParseOptionalDate parses a query date; empty means unset.
func ParseOptionalDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid date").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	t := d.Time
	return &t, nil
}

// --- Error Response ---

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// FromAppError builds the error body.
func FromAppError(err *apperror.AppError) ErrorResponse {
	return ErrorResponse{Error: err.Message, Code: err.Code, Details: err.Details}
}
