package reports

import (
	"context"
	"time"
)

// Repository loads report rows. Every method only reads.
type Repository interface {
	// AccountBalances returns every ledger account with opening balance before
	// period.From and movements within the period.
	AccountBalances(ctx context.Context, period Period) ([]AccountBalance, error)

	// CashLines returns the entries against cashAccountID within the period.
	CashLines(ctx context.Context, cashAccountID int64, period Period) ([]CashLine, error)

	// SaleLines returns sales and sales returns dated within the period.
	SaleLines(ctx context.Context, period Period) ([]SaleLine, error)

	// ExpenseLines returns expenses dated within the period.
	ExpenseLines(ctx context.Context, period Period) ([]ExpenseLine, error)

	// InventoryRows returns every product's stock and price.
	InventoryRows(ctx context.Context) ([]InventoryRow, error)

	// ReceivableRows returns credit sales with a positive payable dated up to asOf.
	ReceivableRows(ctx context.Context, asOf time.Time) ([]ReceivableRow, error)

	// PayableRows returns suppliers with a non-zero payable.
	PayableRows(ctx context.Context) ([]PayableRow, error)
}
