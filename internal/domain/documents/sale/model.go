// Package sale provides the Sale document and collections of credit-sale
// receivables.
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

// NumberPrefix prefixes sale numbers.
const NumberPrefix = "SAL"

// Sale is a sale to a walk-in or named customer.
type Sale struct {
	entity.Document

	CustomerName  string                `db:"customer_name" json:"customerName"`
	PaymentMethod posting.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Discount      types.Money           `db:"discount" json:"discount"`

	// PayableAmount is what the customer still owes on a credit sale.
	// Set to the total when posted; collections and credit returns lower it.
	PayableAmount types.Money `db:"payable_amount" json:"payableAmount"`

	Items []Item `db:"-" json:"items"`

	TotalPrice types.Money `db:"-" json:"totalPrice"`
}

// Item is one sold product line.
type Item struct {
	ID        int64       `db:"id" json:"id"`
	SaleID    int64       `db:"sale_id" json:"saleId"`
	ProductID int64       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"`
}

// Total returns quantity * price.
func (i Item) Total() types.Money {
	return types.LineTotal(i.Quantity, i.Price)
}

// Subtotal returns the sum of line totals before discount.
func (s *Sale) Subtotal() types.Money {
	total := types.Zero()
	for _, it := range s.Items {
		total = total.Add(it.Total())
	}
	return total
}

// Total returns the subtotal minus discount.
func (s *Sale) Total() types.Money {
	return s.Subtotal().Sub(s.Discount)
}

// Header implements posting.Postable.
func (s *Sale) Header() *entity.Document { return &s.Document }

// Derive implements posting.Postable.
func (s *Sale) Derive() { s.TotalPrice = s.Total() }

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}
	if !s.PaymentMethod.Valid() {
		return apperror.NewValidation("paymentMethod must be Cash or Credit").WithDetail("field", "paymentMethod")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, it := range s.Items {
		if err := posting.ValidateLine(i, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	if s.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").WithDetail("field", "discount")
	}
	if s.Discount.GreaterThan(s.Subtotal()) {
		return apperror.NewValidation("discount exceeds the sale subtotal").
			WithDetail("field", "discount").
			WithDetail("subtotal", s.Subtotal().String())
	}
	return nil
}

// Reference implements posting.Document.
func (s *Sale) Reference() string {
	return ledger.Reference(ledger.RefSale, s.ID)
}

// Movements implements posting.Document.
func (s *Sale) Movements() []posting.Movement {
	moves := make([]posting.Movement, len(s.Items))
	for i, it := range s.Items {
		moves[i] = posting.Movement{Kind: posting.Sale, ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return moves
}

// Balances implements posting.Document. The receivable lives on the sale header
// itself and is set by the service.
func (s *Sale) Balances() []posting.BalanceChange {
	return nil
}

// Entry implements posting.Document: cash or accounts receivable against revenue.
func (s *Sale) Entry(roles accounts.Roles) (ledger.Posting, error) {
	debit := accounts.RoleCash
	if s.PaymentMethod == posting.Credit {
		debit = accounts.RoleAccountsReceivable
	}
	return posting.TwoLegEntry(roles, debit, accounts.RoleSalesRevenue, ledger.Posting{
		Date:        s.Date,
		Type:        ledger.TypeSale,
		ReferenceID: s.Reference(),
		Description: s.describe(),
	}, s.Total())
}

func (s *Sale) describe() string {
	if s.Description != "" {
		return s.Description
	}
	if s.CustomerName != "" {
		return fmt.Sprintf("Sale %s to %s", s.Number, s.CustomerName)
	}
	return fmt.Sprintf("Sale %s", s.Number)
}
