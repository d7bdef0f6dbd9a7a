package ledger

import (
	"fmt"

	"bookkeeper/internal/core/apperror"
)

// Validate checks that the posting is a well-formed balanced entry:
// at least one debit and one credit, no negative amounts, and equal sides.
func (p Posting) Validate() error {
	if p.Date.IsZero() {
		return apperror.NewValidation("posting date is required")
	}
	if !p.Type.Valid() {
		return apperror.NewValidation("unknown transaction type").WithDetail("type", p.Type)
	}
	if p.ReferenceID == "" {
		return apperror.NewValidation("reference id is required")
	}
	if len(p.Lines) < 2 {
		return apperror.NewValidation("a posting needs at least two lines")
	}

	var debits, credits int
	for i, l := range p.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if l.AccountID <= 0 {
			return apperror.NewValidation("ledger account is required").WithDetail("field", field)
		}
		if l.Amount.IsNegative() {
			return apperror.NewValidation("amount cannot be negative").WithDetail("field", field)
		}
		switch l.Type {
		case Debit:
			debits++
		case Credit:
			credits++
		default:
			return apperror.NewValidation("entry type must be Debit or Credit").WithDetail("field", field)
		}
	}
	if debits == 0 || credits == 0 {
		return apperror.NewValidation("a posting needs both a debit and a credit line")
	}

	debit, credit := Totals(p.Lines)
	if !debit.Equal(credit) {
		return apperror.NewUnbalanced(debit.String(), credit.String())
	}
	return nil
}
