// Package sales_return provides the SalesReturn document: goods taken back from
// a customer, refunded in cash or credited against a sale's receivable.
package sales_return

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

// NumberPrefix prefixes sales return numbers.
const NumberPrefix = "SRT"

// SalesReturn is a customer return.
type SalesReturn struct {
	entity.Document

	CustomerName  string                `db:"customer_name" json:"customerName"`
	PaymentMethod posting.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	// SaleID optionally links the sale being returned; credit returns lower its payable
	SaleID *int64 `db:"sale_id" json:"saleId,omitempty"`
	// ReceivableApplied is how much the return took off the linked sale's
	// payable when posted; less than the total once the sale was mostly collected
	ReceivableApplied types.Money `db:"receivable_applied" json:"receivableApplied"`

	Items []Item `db:"-" json:"items"`

	TotalPrice types.Money `db:"-" json:"totalPrice"`
}

// Item is one returned product line.
type Item struct {
	ID            int64       `db:"id" json:"id"`
	SalesReturnID int64       `db:"sales_return_id" json:"salesReturnId"`
	ProductID     int64       `db:"product_id" json:"productId"`
	Quantity      int64       `db:"quantity" json:"quantity"`
	ReturnPrice   types.Money `db:"return_price" json:"returnPrice"`
}

// Total returns quantity * return price.
func (i Item) Total() types.Money {
	return types.LineTotal(i.Quantity, i.ReturnPrice)
}

// Total returns the sum of line totals.
func (r *SalesReturn) Total() types.Money {
	total := types.Zero()
	for _, it := range r.Items {
		total = total.Add(it.Total())
	}
	return total
}

// Header implements posting.Postable.
func (r *SalesReturn) Header() *entity.Document { return &r.Document }

// Derive implements posting.Postable.
func (r *SalesReturn) Derive() { r.TotalPrice = r.Total() }

// Validate implements entity.Validatable.
func (r *SalesReturn) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}
	// decided by posting
	r.ReceivableApplied = types.Zero()
	if !r.PaymentMethod.Valid() {
		return apperror.NewValidation("paymentMethod must be Cash or Credit").WithDetail("field", "paymentMethod")
	}
	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, it := range r.Items {
		if err := posting.ValidateLine(i, it.ProductID, it.Quantity, it.ReturnPrice); err != nil {
			return err
		}
	}
	return nil
}

// Reference implements posting.Document.
func (r *SalesReturn) Reference() string {
	return ledger.Reference(ledger.RefSalesReturn, r.ID)
}

// Movements implements posting.Document.
func (r *SalesReturn) Movements() []posting.Movement {
	moves := make([]posting.Movement, len(r.Items))
	for i, it := range r.Items {
		moves[i] = posting.Movement{Kind: posting.CustomerReturn, ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return moves
}

// Balances implements posting.Document. A credit return linked to a sale lowers
// that sale's receivable, never below zero.
func (r *SalesReturn) Balances() []posting.BalanceChange {
	if r.PaymentMethod != posting.Credit || r.SaleID == nil {
		return nil
	}
	return []posting.BalanceChange{{
		Kind:    posting.SaleReceivable,
		ID:      *r.SaleID,
		Delta:   r.Total().Neg(),
		Capped:  true,
		Applied: &r.ReceivableApplied,
	}}
}

// Settled implements posting.Settling.
func (r *SalesReturn) Settled() bool {
	return r.PaymentMethod == posting.Credit && r.SaleID != nil
}

// Entry implements posting.Document: sales returns against cash or accounts receivable.
func (r *SalesReturn) Entry(roles accounts.Roles) (ledger.Posting, error) {
	credit := accounts.RoleCash
	if r.PaymentMethod == posting.Credit {
		credit = accounts.RoleAccountsReceivable
	}
	return posting.TwoLegEntry(roles, accounts.RoleSalesReturns, credit, ledger.Posting{
		Date:        r.Date,
		Type:        ledger.TypeSalesReturn,
		ReferenceID: r.Reference(),
		Description: r.describe(),
	}, r.Total())
}

func (r *SalesReturn) describe() string {
	if r.Description != "" {
		return r.Description
	}
	return fmt.Sprintf("Sales return %s", r.Number)
}
