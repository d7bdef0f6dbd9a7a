// Package expense provides the Expense record: money paid out of cash against
// an expense account.
package expense

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
)

// Expense is a cash expense.
type Expense struct {
	entity.Document

	LedgerAccountID int64       `db:"ledger_account_id" json:"ledgerAccountId"`
	Amount          types.Money `db:"amount" json:"amount"`
}

// Header implements posting.Postable.
func (e *Expense) Header() *entity.Document { return &e.Document }

// Derive implements posting.Postable.
func (e *Expense) Derive() {}

// Validate implements entity.Validatable.
func (e *Expense) Validate(ctx context.Context) error {
	if err := e.Document.Validate(ctx); err != nil {
		return err
	}
	if e.LedgerAccountID <= 0 {
		return apperror.NewValidation("ledgerAccountId is required").WithDetail("field", "ledgerAccountId")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	return nil
}

// Reference implements posting.Document.
func (e *Expense) Reference() string {
	return ledger.Reference(ledger.RefExpense, e.ID)
}

// Movements implements posting.Document.
func (e *Expense) Movements() []posting.Movement { return nil }

// Balances implements posting.Document.
func (e *Expense) Balances() []posting.BalanceChange { return nil }

// Entry implements posting.Document: the expense account against cash.
func (e *Expense) Entry(roles accounts.Roles) (ledger.Posting, error) {
	cash, err := roles.Account(accounts.RoleCash)
	if err != nil {
		return ledger.Posting{}, err
	}
	description := e.Description
	if description == "" {
		description = "Expense"
	}
	return ledger.Posting{
		Date:        e.Date,
		Type:        ledger.TypeExpense,
		ReferenceID: e.Reference(),
		Description: description,
		Lines:       ledger.TwoLeg(e.LedgerAccountID, cash, e.Amount, description),
	}, nil
}
