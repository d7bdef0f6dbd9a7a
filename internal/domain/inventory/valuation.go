// Package inventory keeps each product's on-hand quantity and weighted-average
// unit cost consistent with purchases, sales and returns.
package inventory

import (
	"github.com/shopspring/decimal"

	"bookkeeper/internal/core/types"
)

// Position is a product's stock and weighted-average unit cost.
type Position struct {
	Stock int64
	Price types.Money
}

// Receive adds qty units bought at unitCost and re-blends the average cost.
// A non-positive resulting stock takes the rounded unit cost as price.
func Receive(pos Position, qty int64, unitCost types.Money) Position {
	newStock := pos.Stock + qty
	if newStock <= 0 {
		return Position{Stock: newStock, Price: types.RoundUnit(unitCost)}
	}
	total := types.LineTotal(pos.Stock, pos.Price).Add(types.LineTotal(qty, unitCost))
	return Position{
		Stock: newStock,
		Price: types.RoundUnit(total.Div(decimal.NewFromInt(newStock))),
	}
}

// Unreceive removes qty units valued at unitCost, the inverse of Receive.
// When nothing remains the price resets to zero.
func Unreceive(pos Position, qty int64, unitCost types.Money) Position {
	remaining := pos.Stock - qty
	if remaining <= 0 {
		return Position{Stock: remaining, Price: types.Zero()}
	}
	total := types.LineTotal(pos.Stock, pos.Price).Sub(types.LineTotal(qty, unitCost))
	return Position{
		Stock: remaining,
		Price: types.RoundUnit(total.Div(decimal.NewFromInt(remaining))),
	}
}

// Issue takes qty units out of stock at the current cost.
// ok is false when stock does not cover qty.
func Issue(pos Position, qty int64) (Position, bool) {
	if pos.Stock < qty {
		return pos, false
	}
	return Position{Stock: pos.Stock - qty, Price: pos.Price}, true
}

// Restock puts qty units back at the current cost.
func Restock(pos Position, qty int64) Position {
	return Position{Stock: pos.Stock + qty, Price: pos.Price}
}
