package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/manual_entry"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
	*ItemStore[purchase.Item]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	base := NewBaseDocumentRepo(txm, "purchases", "purchase",
		postgres.ExtractDBColumns[purchase.Purchase](),
		func() *purchase.Purchase { return &purchase.Purchase{} },
	)
	base.counterpartyCol = "supplier_id"
	return &PurchaseRepo{
		BaseDocumentRepo: base,
		ItemStore: NewItemStore(txm, "purchase_items", "purchase_id",
			func(it *purchase.Item, id int64) { it.ID = id },
			func(it *purchase.Item, owner int64) { it.PurchaseID = owner },
		),
	}
}

// PurchaseReturnRepo implements purchase_return.Repository.
type PurchaseReturnRepo struct {
	*BaseDocumentRepo[*purchase_return.PurchaseReturn]
	*ItemStore[purchase_return.Item]
}

var _ purchase_return.Repository = (*PurchaseReturnRepo)(nil)

// NewPurchaseReturnRepo creates a new purchase return repository.
func NewPurchaseReturnRepo(txm *postgres.TxManager) *PurchaseReturnRepo {
	base := NewBaseDocumentRepo(txm, "purchase_returns", "purchase return",
		postgres.ExtractDBColumns[purchase_return.PurchaseReturn](),
		func() *purchase_return.PurchaseReturn { return &purchase_return.PurchaseReturn{} },
	)
	base.counterpartyCol = "supplier_id"
	return &PurchaseReturnRepo{
		BaseDocumentRepo: base,
		ItemStore: NewItemStore(txm, "purchase_return_items", "purchase_return_id",
			func(it *purchase_return.Item, id int64) { it.ID = id },
			func(it *purchase_return.Item, owner int64) { it.PurchaseReturnID = owner },
		),
	}
}

// SalesReturnRepo implements sales_return.Repository.
type SalesReturnRepo struct {
	*BaseDocumentRepo[*sales_return.SalesReturn]
	*ItemStore[sales_return.Item]
}

var _ sales_return.Repository = (*SalesReturnRepo)(nil)

// NewSalesReturnRepo creates a new sales return repository.
func NewSalesReturnRepo(txm *postgres.TxManager) *SalesReturnRepo {
	base := NewBaseDocumentRepo(txm, "sales_returns", "sales return",
		postgres.ExtractDBColumns[sales_return.SalesReturn](),
		func() *sales_return.SalesReturn { return &sales_return.SalesReturn{} },
	)
	base.counterpartyCol = "sale_id"
	base.searchCols = []string{"number", "customer_name"}
	return &SalesReturnRepo{
		BaseDocumentRepo: base,
		ItemStore: NewItemStore(txm, "sales_return_items", "sales_return_id",
			func(it *sales_return.Item, id int64) { it.ID = id },
			func(it *sales_return.Item, owner int64) { it.SalesReturnID = owner },
		),
	}
}

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	*BaseDocumentRepo[*expense.Expense]
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txm *postgres.TxManager) *ExpenseRepo {
	base := NewBaseDocumentRepo(txm, "expenses", "expense",
		postgres.ExtractDBColumns[expense.Expense](),
		func() *expense.Expense { return &expense.Expense{} },
	)
	base.counterpartyCol = "ledger_account_id"
	base.searchCols = []string{"description"}
	return &ExpenseRepo{BaseDocumentRepo: base}
}

// ManualEntryRepo implements manual_entry.Repository.
type ManualEntryRepo struct {
	*BaseDocumentRepo[*manual_entry.ManualEntry]
}

var _ manual_entry.Repository = (*ManualEntryRepo)(nil)

// NewManualEntryRepo creates a new manual entry repository.
func NewManualEntryRepo(txm *postgres.TxManager) *ManualEntryRepo {
	base := NewBaseDocumentRepo(txm, "manual_entries", "manual entry",
		postgres.ExtractDBColumns[manual_entry.ManualEntry](),
		func() *manual_entry.ManualEntry { return &manual_entry.ManualEntry{} },
	)
	base.searchCols = []string{"description"}
	return &ManualEntryRepo{BaseDocumentRepo: base}
}

// SupplierPaymentRepo implements supplier_payment.Repository.
type SupplierPaymentRepo struct {
	*BaseDocumentRepo[*supplier_payment.Payment]
}

var _ supplier_payment.Repository = (*SupplierPaymentRepo)(nil)

// NewSupplierPaymentRepo creates a new supplier payment repository.
func NewSupplierPaymentRepo(txm *postgres.TxManager) *SupplierPaymentRepo {
	base := NewBaseDocumentRepo(txm, "supplier_payments", "supplier payment",
		postgres.ExtractDBColumns[supplier_payment.Payment](),
		func() *supplier_payment.Payment { return &supplier_payment.Payment{} },
	)
	base.counterpartyCol = "supplier_id"
	base.searchCols = []string{"description"}
	return &SupplierPaymentRepo{BaseDocumentRepo: base}
}

// existsIn reports whether table has a row with col = id.
func existsIn(ctx context.Context, db postgres.Querier, table, col string, id int64) (bool, error) {
	return postgres.Exists(ctx, db, postgres.Builder().Select("1").From(table).Where(squirrel.Eq{col: id}))
}
