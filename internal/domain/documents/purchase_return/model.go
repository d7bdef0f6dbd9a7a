// Package purchase_return provides the PurchaseReturn document: goods sent back
// to a supplier, refunded in cash or deducted from the payable.
package purchase_return

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

// NumberPrefix prefixes purchase return numbers.
const NumberPrefix = "PRT"

// PurchaseReturn is a return of goods to a supplier.
type PurchaseReturn struct {
	entity.Document

	SupplierID    int64                 `db:"supplier_id" json:"supplierId"`
	PaymentMethod posting.PaymentMethod `db:"payment_method" json:"paymentMethod"`
	// PurchaseID optionally links the purchase the goods came from
	PurchaseID *int64 `db:"purchase_id" json:"purchaseId,omitempty"`

	Items []Item `db:"-" json:"items"`

	TotalPrice types.Money `db:"-" json:"totalPrice"`
}

// Item is one returned product line.
type Item struct {
	ID                  int64       `db:"id" json:"id"`
	PurchaseReturnID    int64       `db:"purchase_return_id" json:"purchaseReturnId"`
	ProductID           int64       `db:"product_id" json:"productId"`
	Quantity            int64       `db:"quantity" json:"quantity"`
	PurchaseReturnPrice types.Money `db:"purchase_return_price" json:"purchaseReturnPrice"`
}

// Total returns quantity * return price.
func (i Item) Total() types.Money {
	return types.LineTotal(i.Quantity, i.PurchaseReturnPrice)
}

// Total returns the sum of line totals.
func (r *PurchaseReturn) Total() types.Money {
	total := types.Zero()
	for _, it := range r.Items {
		total = total.Add(it.Total())
	}
	return total
}

// Header implements posting.Postable.
func (r *PurchaseReturn) Header() *entity.Document { return &r.Document }

// Derive implements posting.Postable.
func (r *PurchaseReturn) Derive() { r.TotalPrice = r.Total() }

// Validate implements entity.Validatable.
func (r *PurchaseReturn) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}
	if r.SupplierID <= 0 {
		return apperror.NewValidation("supplierId is required").WithDetail("field", "supplierId")
	}
	if !r.PaymentMethod.Valid() {
		return apperror.NewValidation("paymentMethod must be Cash or Credit").WithDetail("field", "paymentMethod")
	}
	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, it := range r.Items {
		if err := posting.ValidateLine(i, it.ProductID, it.Quantity, it.PurchaseReturnPrice); err != nil {
			return err
		}
	}
	return nil
}

// Reference implements posting.Document.
func (r *PurchaseReturn) Reference() string {
	return ledger.Reference(ledger.RefPurchaseReturn, r.ID)
}

// Movements implements posting.Document.
func (r *PurchaseReturn) Movements() []posting.Movement {
	moves := make([]posting.Movement, len(r.Items))
	for i, it := range r.Items {
		moves[i] = posting.Movement{
			Kind:      posting.SupplierReturn,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.PurchaseReturnPrice,
		}
	}
	return moves
}

// Balances implements posting.Document. Credit returns lower the supplier payable;
// the payable may go negative (supplier owes us).
func (r *PurchaseReturn) Balances() []posting.BalanceChange {
	if r.PaymentMethod != posting.Credit {
		return nil
	}
	return []posting.BalanceChange{{Kind: posting.SupplierPayable, ID: r.SupplierID, Delta: r.Total().Neg()}}
}

// Entry implements posting.Document: cash or accounts payable against inventory.
func (r *PurchaseReturn) Entry(roles accounts.Roles) (ledger.Posting, error) {
	debit := accounts.RoleCash
	if r.PaymentMethod == posting.Credit {
		debit = accounts.RoleAccountsPayable
	}
	return posting.TwoLegEntry(roles, debit, accounts.RoleInventory, ledger.Posting{
		Date:        r.Date,
		Type:        ledger.TypePurchaseReturn,
		ReferenceID: r.Reference(),
		Description: r.describe(),
	}, r.Total())
}

func (r *PurchaseReturn) describe() string {
	if r.Description != "" {
		return r.Description
	}
	return fmt.Sprintf("Purchase return %s", r.Number)
}
