// Package purchase provides the Purchase document: goods bought from a supplier
// for cash or on credit.
package purchase

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

// NumberPrefix prefixes purchase numbers.
const NumberPrefix = "PUR"

// Purchase is a supplier purchase.
type Purchase struct {
	entity.Document

	SupplierID    int64                 `db:"supplier_id" json:"supplierId"`
	PaymentMethod posting.PaymentMethod `db:"payment_method" json:"paymentMethod"`

	Items []Item `db:"-" json:"items"`

	// TotalPrice is derived from Items and never stored
	TotalPrice types.Money `db:"-" json:"totalPrice"`
}

// Item is one purchased product line.
type Item struct {
	ID            int64       `db:"id" json:"id"`
	PurchaseID    int64       `db:"purchase_id" json:"purchaseId"`
	ProductID     int64       `db:"product_id" json:"productId"`
	Quantity      int64       `db:"quantity" json:"quantity"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
}

// Total returns quantity * purchase price.
func (i Item) Total() types.Money {
	return types.LineTotal(i.Quantity, i.PurchasePrice)
}

// Total returns the sum of line totals.
func (p *Purchase) Total() types.Money {
	total := types.Zero()
	for _, it := range p.Items {
		total = total.Add(it.Total())
	}
	return total
}

// Header implements posting.Postable.
func (p *Purchase) Header() *entity.Document { return &p.Document }

// Derive implements posting.Postable.
func (p *Purchase) Derive() { p.TotalPrice = p.Total() }

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if p.SupplierID <= 0 {
		return apperror.NewValidation("supplierId is required").WithDetail("field", "supplierId")
	}
	if !p.PaymentMethod.Valid() {
		return apperror.NewValidation("paymentMethod must be Cash or Credit").WithDetail("field", "paymentMethod")
	}
	if len(p.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, it := range p.Items {
		if err := posting.ValidateLine(i, it.ProductID, it.Quantity, it.PurchasePrice); err != nil {
			return err
		}
	}
	return nil
}

// Reference implements posting.Document.
func (p *Purchase) Reference() string {
	return ledger.Reference(ledger.RefPurchase, p.ID)
}

// Movements implements posting.Document.
func (p *Purchase) Movements() []posting.Movement {
	moves := make([]posting.Movement, len(p.Items))
	for i, it := range p.Items {
		moves[i] = posting.Movement{
			Kind:      posting.Receipt,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.PurchasePrice,
		}
	}
	return moves
}

// Balances implements posting.Document. Credit purchases raise the supplier payable.
func (p *Purchase) Balances() []posting.BalanceChange {
	if p.PaymentMethod != posting.Credit {
		return nil
	}
	return []posting.BalanceChange{{Kind: posting.SupplierPayable, ID: p.SupplierID, Delta: p.Total()}}
}

// Entry implements posting.Document: inventory against cash or accounts payable.
func (p *Purchase) Entry(roles accounts.Roles) (ledger.Posting, error) {
	credit := accounts.RoleCash
	if p.PaymentMethod == posting.Credit {
		credit = accounts.RoleAccountsPayable
	}
	return posting.TwoLegEntry(roles, accounts.RoleInventory, credit, ledger.Posting{
		Date:        p.Date,
		Type:        ledger.TypePurchase,
		ReferenceID: p.Reference(),
		Description: p.describe(),
	}, p.Total())
}

func (p *Purchase) describe() string {
	if p.Description != "" {
		return p.Description
	}
	return fmt.Sprintf("Purchase %s", p.Number)
}
