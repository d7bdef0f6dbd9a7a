package sale

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

// Collection is cash received against a credit sale.
type Collection struct {
	entity.Document

	SaleID int64       `db:"sale_id" json:"saleId"`
	Amount types.Money `db:"amount" json:"amount"`
}

// Header implements posting.Postable.
func (c *Collection) Header() *entity.Document { return &c.Document }

// Derive implements posting.Postable.
func (c *Collection) Derive() {}

// Validate implements entity.Validatable.
func (c *Collection) Validate(ctx context.Context) error {
	if err := c.Document.Validate(ctx); err != nil {
		return err
	}
	if c.SaleID <= 0 {
		return apperror.NewValidation("saleId is required").WithDetail("field", "saleId")
	}
	if !c.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	return nil
}

// Reference implements posting.Document.
func (c *Collection) Reference() string {
	return ledger.Reference(ledger.RefCollection, c.ID)
}

// Movements implements posting.Document.
func (c *Collection) Movements() []posting.Movement { return nil }

// Balances implements posting.Document. A collection may not exceed what is owed.
func (c *Collection) Balances() []posting.BalanceChange {
	return []posting.BalanceChange{{
		Kind:        posting.SaleReceivable,
		ID:          c.SaleID,
		Delta:       c.Amount.Neg(),
		NonNegative: true,
	}}
}

// Entry implements posting.Document: cash against accounts receivable.
func (c *Collection) Entry(roles accounts.Roles) (ledger.Posting, error) {
	description := c.Description
	if description == "" {
		description = fmt.Sprintf("Receivable collected for sale #%d", c.SaleID)
	}
	return posting.TwoLegEntry(roles, accounts.RoleCash, accounts.RoleAccountsReceivable, ledger.Posting{
		Date:        c.Date,
		Type:        ledger.TypeManualEntry,
		ReferenceID: c.Reference(),
		Description: description,
	}, c.Amount)
}
