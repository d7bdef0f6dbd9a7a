// Package supplier_payment provides payments that settle supplier payables.
package supplier_payment

import (
	"context"
	"fmt"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
)

// Payment is cash paid to a supplier against the payable.
type Payment struct {
	entity.Document

	SupplierID int64       `db:"supplier_id" json:"supplierId"`
	Amount     types.Money `db:"amount" json:"amount"`
}

// Header implements posting.Postable.
func (p *Payment) Header() *entity.Document { return &p.Document }

// Derive implements posting.Postable.
func (p *Payment) Derive() {}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if p.SupplierID <= 0 {
		return apperror.NewValidation("supplierId is required").WithDetail("field", "supplierId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	return nil
}

// Reference implements posting.Document.
func (p *Payment) Reference() string {
	return ledger.Reference(ledger.RefSupplierPayment, p.ID)
}

// Movements implements posting.Document.
func (p *Payment) Movements() []posting.Movement { return nil }

// Balances implements posting.Document. A payment may not exceed the payable.
func (p *Payment) Balances() []posting.BalanceChange {
	return []posting.BalanceChange{{
		Kind:        posting.SupplierPayable,
		ID:          p.SupplierID,
		Delta:       p.Amount.Neg(),
		NonNegative: true,
	}}
}

// Entry implements posting.Document: accounts payable against cash.
func (p *Payment) Entry(roles accounts.Roles) (ledger.Posting, error) {
	description := p.Description
	if description == "" {
		description = fmt.Sprintf("Payment to supplier #%d", p.SupplierID)
	}
	return posting.TwoLegEntry(roles, accounts.RoleAccountsPayable, accounts.RoleCash, ledger.Posting{
		Date:        p.Date,
		Type:        ledger.TypeManualEntry,
		ReferenceID: p.Reference(),
		Description: description,
	}, p.Amount)
}
