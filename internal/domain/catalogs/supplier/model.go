// Package supplier provides the supplier catalog and the payable balance owed to each supplier.
package supplier

import (
	"context"
	"strings"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
)

// Supplier is a vendor goods are purchased from.
type Supplier struct {
	entity.BaseEntity

	Name    string `db:"name" json:"name"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`

	// PayableAmount is the running credit balance owed to the supplier.
	// Only postings change it.
	PayableAmount types.Money `db:"payable_amount" json:"payableAmount"`
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}
