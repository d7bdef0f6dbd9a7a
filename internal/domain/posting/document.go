// Package posting runs the posting workflows: it turns a document into
// inventory movements, counterparty balance changes and one balanced journal
// transaction, and reverses all three when the document is edited or deleted.
package posting

import (
	"fmt"
	"strings"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
)

// PaymentMethod tells whether a document settles in cash or on credit.
type PaymentMethod string

const (
	Cash   PaymentMethod = "Cash"
	Credit PaymentMethod = "Credit"
)

// ParsePaymentMethod accepts "cash" or "credit" in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch {
	case strings.EqualFold(s, string(Cash)):
		return Cash, nil
	case strings.EqualFold(s, string(Credit)):
		return Credit, nil
	}
	return "", apperror.NewValidation("paymentMethod must be Cash or Credit").WithDetail("paymentMethod", s)
}

// Valid reports whether m is Cash or Credit.
func (m PaymentMethod) Valid() bool {
	return m == Cash || m == Credit
}

// MovementKind is the inventory effect of a document line.
type MovementKind int

const (
	// Receipt brings purchased goods in at cost.
	Receipt MovementKind = iota
	// SupplierReturn sends goods back to the supplier at the return price.
	SupplierReturn
	// Sale issues goods to a customer.
	Sale
	// CustomerReturn takes goods back from a customer.
	CustomerReturn
)

// Movement is one inventory effect.
type Movement struct {
	Kind      MovementKind
	ProductID int64
	Quantity  int64
	UnitCost  types.Money
}

// BalanceKind selects the counterparty balance a document moves.
type BalanceKind int

const (
	// SupplierPayable is the amount owed to a supplier.
	SupplierPayable BalanceKind = iota
	// SaleReceivable is the amount still owed on a credit sale.
	SaleReceivable
)

// String names the entity holding the balance.
func (k BalanceKind) String() string {
	switch k {
	case SupplierPayable:
		return "supplier"
	case SaleReceivable:
		return "sale"
	}
	return "unknown"
}

// BalanceChange moves a counterparty balance by Delta when posted.
// With NonNegative set, a posting that drives the balance below zero fails.
// With Capped set, a decrease stops at zero instead: the posting moves the
// balance by at most what is outstanding and writes the amount it actually
// moved to *Applied. Reversal undoes *Applied, not Delta.
type BalanceChange struct {
	Kind        BalanceKind
	ID          int64
	Delta       types.Money
	NonNegative bool
	Capped      bool
	Applied     *types.Money
}

// Settling is implemented by documents whose header stores amounts decided
// while posting (see BalanceChange.Capped). The workflow saves the header
// again after Post when Settled reports true.
type Settling interface {
	Settled() bool
}

// Document is anything the engine can post.
type Document interface {
	// Reference is the ledger reference ID, e.g. "P#12". Valid once the header is stored.
	Reference() string
	Movements() []Movement
	Balances() []BalanceChange
	Entry(roles accounts.Roles) (ledger.Posting, error)
}

// ValidateLine checks one document line.
func ValidateLine(i int, productID, quantity int64, price types.Money) error {
	field := fmt.Sprintf("items[%d]", i)
	if productID <= 0 {
		return apperror.NewValidation("productId is required").WithDetail("field", field)
	}
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").WithDetail("field", field)
	}
	if price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", field)
	}
	return nil
}

// TwoLegEntry builds a two-leg posting between role accounts.
func TwoLegEntry(roles accounts.Roles, debit, credit accounts.Role, p ledger.Posting, amount types.Money) (ledger.Posting, error) {
	debitID, err := roles.Account(debit)
	if err != nil {
		return p, err
	}
	creditID, err := roles.Account(credit)
	if err != nil {
		return p, err
	}
	p.Lines = ledger.TwoLeg(debitID, creditID, amount, p.Description)
	return p, nil
}
