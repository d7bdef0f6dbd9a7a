package inventory

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/types"
)

// Store reads and writes product positions.
// LockPosition must hold a row lock until the surrounding transaction ends.
type Store interface {
	LockPosition(ctx context.Context, productID int64) (Position, error)
	SavePosition(ctx context.Context, productID int64, pos Position) error
}

// Ledger applies postings to product positions. Every method must run inside
// a transaction; an error leaves the caller to roll back.
type Ledger struct {
	store Store
}

// NewLedger creates a new inventory ledger.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) apply(ctx context.Context, productID int64, fn func(Position) (Position, error)) error {
	pos, err := l.store.LockPosition(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("product", productID)
		}
		return err
	}
	next, err := fn(pos)
	if err != nil {
		return err
	}
	return l.store.SavePosition(ctx, productID, next)
}

func (l *Ledger) issue(ctx context.Context, productID, qty int64) error {
	return l.apply(ctx, productID, func(pos Position) (Position, error) {
		next, ok := Issue(pos, qty)
		if !ok {
			return pos, apperror.NewInsufficientStock(productID, qty, pos.Stock)
		}
		return next, nil
	})
}

// Purchase receives purchased goods at their purchase price.
func (l *Ledger) Purchase(ctx context.Context, productID, qty int64, unitCost types.Money) error {
	return l.apply(ctx, productID, func(pos Position) (Position, error) {
		return Receive(pos, qty, unitCost), nil
	})
}

// ReversePurchase undoes Purchase when a purchase is edited or deleted.
// Stock is not checked, matching the purchase it reverses.
func (l *Ledger) ReversePurchase(ctx context.Context, productID, qty int64, unitCost types.Money) error {
	return l.apply(ctx, productID, func(pos Position) (Position, error) {
		return Unreceive(pos, qty, unitCost), nil
	})
}

// ReturnToSupplier sends goods back at the return price; stock must cover qty.
func (l *Ledger) ReturnToSupplier(ctx context.Context, productID, qty int64, unitCost types.Money) error {
	return l.apply(ctx, productID, func(pos Position) (Position, error) {
		if pos.Stock < qty {
			return pos, apperror.NewInsufficientStock(productID, qty, pos.Stock)
		}
		return Unreceive(pos, qty, unitCost), nil
	})
}

// ReverseSupplierReturn undoes ReturnToSupplier.
func (l *Ledger) ReverseSupplierReturn(ctx context.Context, productID, qty int64, unitCost types.Money) error {
	return l.Purchase(ctx, productID, qty, unitCost)
}

// Sell issues sold goods; stock must cover qty.
func (l *Ledger) Sell(ctx context.Context, productID, qty int64) error {
	return l.issue(ctx, productID, qty)
}

// ReverseSale puts sold goods back when a sale is edited or deleted.
func (l *Ledger) ReverseSale(ctx context.Context, productID, qty int64) error {
	return l.apply(ctx, productID, func(pos Position) (Position, error) {
		return Restock(pos, qty), nil
	})
}

// ReturnFromCustomer restocks goods a customer brought back.
func (l *Ledger) ReturnFromCustomer(ctx context.Context, productID, qty int64) error {
	return l.ReverseSale(ctx, productID, qty)
}

// ReverseCustomerReturn undoes ReturnFromCustomer; stock must cover qty.
func (l *Ledger) ReverseCustomerReturn(ctx context.Context, productID, qty int64) error {
	return l.issue(ctx, productID, qty)
}
