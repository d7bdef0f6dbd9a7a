// Package reports builds financial and operational reports from the journal
// and the catalogs. Builders are pure; the service loads rows and calls them.
package reports

import (
	"time"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
)

// Period bounds a report; nil ends are open. Both ends are inclusive.
type Period struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// --- Rows loaded from storage ---

// AccountBalance is one ledger account with its movement over a period.
// Opening is Σdebit − Σcredit of everything dated before the period.
type AccountBalance struct {
	AccountID   int64                `db:"account_id"`
	Code        string               `db:"code"`
	Name        string               `db:"name"`
	GroupName   string               `db:"group_name"`
	AccountType accounts.AccountType `db:"account_type"`
	Role        *accounts.Role       `db:"role"`
	Opening     types.Money          `db:"opening"`
	Debit       types.Money          `db:"debit"`
	Credit      types.Money          `db:"credit"`
}

// Closing returns the debit-positive closing balance.
func (a AccountBalance) Closing() types.Money {
	return a.Opening.Add(a.Debit).Sub(a.Credit)
}

// Natural returns the closing balance signed by the account's normal side:
// positive for a debit balance on assets and expenses, a credit balance otherwise.
func (a AccountBalance) Natural() types.Money {
	if a.AccountType.DebitNormal() {
		return a.Closing()
	}
	return a.Closing().Neg()
}

// CashLine is one journal entry against the cash account.
type CashLine struct {
	TransactionID int64                  `db:"transaction_id"`
	Date          time.Time              `db:"date"`
	Type          ledger.TransactionType `db:"type"`
	ReferenceID   string                 `db:"reference_id"`
	EntryType     ledger.EntryType       `db:"entry_type"`
	Amount        types.Money            `db:"amount"`
}

// SaleLine is one sale or sales return summarised for the sales report.
// Returns carry their total in Subtotal and a zero Discount.
type SaleLine struct {
	Date     time.Time   `db:"date"`
	IsReturn bool        `db:"is_return"`
	Subtotal types.Money `db:"subtotal"`
	Discount types.Money `db:"discount"`
}

// ExpenseLine is one expense.
type ExpenseLine struct {
	AccountID int64       `db:"account_id"`
	Code      string      `db:"code"`
	Name      string      `db:"name"`
	Amount    types.Money `db:"amount"`
}

// --- Reports ---

// TrialBalanceRow is one account in the trial balance.
type TrialBalanceRow struct {
	AccountID   int64                `json:"accountId"`
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	AccountType accounts.AccountType `json:"accountType"`
	Opening     types.Money          `json:"opening"`
	Debit       types.Money          `json:"debit"`
	Credit      types.Money          `json:"credit"`
	Closing     types.Money          `json:"closing"`
}

// TrialBalance lists every account with movement over the period.
type TrialBalance struct {
	Period       Period            `json:"period"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalOpening types.Money       `json:"totalOpening"`
	TotalDebit   types.Money       `json:"totalDebit"`
	TotalCredit  types.Money       `json:"totalCredit"`
	TotalClosing types.Money       `json:"totalClosing"`
	Balanced     bool              `json:"balanced"`
}

// StatementLine is one account in a statement section.
type StatementLine struct {
	AccountID int64       `json:"accountId"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Amount    types.Money `json:"amount"`
}

// StatementSection groups accounts of one class.
type StatementSection struct {
	Label    string          `json:"label"`
	Accounts []StatementLine `json:"accounts"`
	Total    types.Money     `json:"total"`
}

// IncomeStatement is revenue less expenses over a period.
type IncomeStatement struct {
	Period   Period           `json:"period"`
	Revenue  StatementSection `json:"revenue"`
	Expenses StatementSection `json:"expenses"`
	// NetIncome is revenue total minus expense total.
	NetIncome types.Money `json:"netIncome"`
}

// BalanceSheet is the financial position at a date.
type BalanceSheet struct {
	AsOf        time.Time        `json:"asOf"`
	Assets      StatementSection `json:"assets"`
	Liabilities StatementSection `json:"liabilities"`
	Equity      StatementSection `json:"equity"`
	// CurrentEarnings is net income not yet closed into equity.
	CurrentEarnings           types.Money `json:"currentEarnings"`
	TotalLiabilitiesAndEquity types.Money `json:"totalLiabilitiesAndEquity"`
	Balanced                  bool        `json:"balanced"`
}

// CashFlowLine is the cash moved by one kind of activity.
type CashFlowLine struct {
	Activity string      `json:"activity"`
	Inflow   types.Money `json:"inflow"`
	Outflow  types.Money `json:"outflow"`
	Net      types.Money `json:"net"`
	Count    int         `json:"count"`
}

// CashFlow is cash movement over a period.
type CashFlow struct {
	Period       Period         `json:"period"`
	OpeningCash  types.Money    `json:"openingCash"`
	Lines        []CashFlowLine `json:"lines"`
	TotalInflow  types.Money    `json:"totalInflow"`
	TotalOutflow types.Money    `json:"totalOutflow"`
	ClosingCash  types.Money    `json:"closingCash"`
}

// SalesDay is the sales activity of one day.
type SalesDay struct {
	Date      types.Date  `json:"date"`
	Sales     int         `json:"sales"`
	Returns   int         `json:"returns"`
	Gross     types.Money `json:"gross"`
	Discounts types.Money `json:"discounts"`
	Refunds   types.Money `json:"refunds"`
	Net       types.Money `json:"net"`
}

// SalesReport is daily sales over a period.
type SalesReport struct {
	Period    Period      `json:"period"`
	Days      []SalesDay  `json:"days"`
	Gross     types.Money `json:"gross"`
	Discounts types.Money `json:"discounts"`
	Refunds   types.Money `json:"refunds"`
	Net       types.Money `json:"net"`
}

// ExpenseRow is the spending on one expense account.
type ExpenseRow struct {
	AccountID int64       `json:"accountId"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Count     int         `json:"count"`
	Total     types.Money `json:"total"`
}

// ExpenseReport totals expenses per account over a period.
type ExpenseReport struct {
	Period Period       `json:"period"`
	Rows   []ExpenseRow `json:"rows"`
	Total  types.Money  `json:"total"`
}

// InventoryRow is one product's position.
type InventoryRow struct {
	ProductID int64       `db:"product_id" json:"productId"`
	Name      string      `db:"name" json:"name"`
	Category  *string     `db:"category" json:"category,omitempty"`
	Stock     int64       `db:"stock" json:"stock"`
	Price     types.Money `db:"price" json:"price"`
	Value     types.Money `db:"-" json:"value"`
}

// InventoryReport values stock at weighted-average price.
type InventoryReport struct {
	Rows       []InventoryRow `json:"rows"`
	TotalUnits int64          `json:"totalUnits"`
	TotalValue types.Money    `json:"totalValue"`
}

// ReceivableRow is one credit sale with an outstanding balance.
type ReceivableRow struct {
	SaleID        int64       `db:"sale_id" json:"saleId"`
	Number        string      `db:"number" json:"number"`
	Date          time.Time   `db:"date" json:"date"`
	CustomerName  string      `db:"customer_name" json:"customerName"`
	PayableAmount types.Money `db:"payable_amount" json:"payableAmount"`
}

// ReceivablesReport lists what customers owe.
type ReceivablesReport struct {
	Rows  []ReceivableRow `json:"rows"`
	Total types.Money     `json:"total"`
}

// PayableRow is one supplier with a non-zero payable.
type PayableRow struct {
	SupplierID    int64       `db:"supplier_id" json:"supplierId"`
	Name          string      `db:"name" json:"name"`
	Phone         string      `db:"phone" json:"phone,omitempty"`
	PayableAmount types.Money `db:"payable_amount" json:"payableAmount"`
}

// PayablesReport lists what is owed to suppliers.
type PayablesReport struct {
	Rows  []PayableRow `json:"rows"`
	Total types.Money  `json:"total"`
}
