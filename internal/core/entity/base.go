// Package entity holds the fields and behaviour shared by catalogs and documents.
package entity

import (
	"context"
	"time"

	"bookkeeper/internal/core/apperror"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	Validate(ctx context.Context) error
}

// Identifiable is implemented by every stored entity.
type Identifiable interface {
	GetID() int64
	SetID(id int64)
}

// BaseEntity contains common fields for all entities.
type BaseEntity struct {
	// ID is the storage-assigned primary key
	ID int64 `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// GetID returns the primary key.
func (b *BaseEntity) GetID() int64 { return b.ID }

// SetID sets the primary key (used by repositories after insert).
func (b *BaseEntity) SetID(id int64) { b.ID = id }

// StampCreated sets both timestamps.
func (b *BaseEntity) StampCreated(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

// StampUpdated moves UpdatedAt forward.
func (b *BaseEntity) StampUpdated(now time.Time) {
	b.UpdatedAt = now
}

// Document is the header shared by every posting document
// (purchases, sales, returns, payments).
type Document struct {
	BaseEntity

	// Number is the human-readable document number (e.g. SAL-2024-00001)
	Number string `db:"number" json:"number,omitempty"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	Description string `db:"description" json:"description,omitempty"`
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
