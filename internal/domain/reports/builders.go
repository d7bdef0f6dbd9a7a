package reports

import (
	"sort"
	"strings"
	"time"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
)

// BuildTrialBalance lists accounts with an opening balance or movement, ordered by code.
func BuildTrialBalance(period Period, balances []AccountBalance) TrialBalance {
	tb := TrialBalance{
		Period:       period,
		Rows:         []TrialBalanceRow{},
		TotalOpening: types.Zero(),
		TotalDebit:   types.Zero(),
		TotalCredit:  types.Zero(),
		TotalClosing: types.Zero(),
	}
	for _, b := range sortByCode(balances) {
		if b.Opening.IsZero() && b.Debit.IsZero() && b.Credit.IsZero() {
			continue
		}
		row := TrialBalanceRow{
			AccountID:   b.AccountID,
			Code:        b.Code,
			Name:        b.Name,
			AccountType: b.AccountType,
			Opening:     b.Opening,
			Debit:       b.Debit,
			Credit:      b.Credit,
			Closing:     b.Closing(),
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalOpening = tb.TotalOpening.Add(row.Opening)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.TotalClosing = tb.TotalClosing.Add(row.Closing)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit) && tb.TotalClosing.IsZero()
	return tb
}

// BuildIncomeStatement nets revenue against expenses. Sales returns carry a
// debit balance inside revenue and reduce it.
func BuildIncomeStatement(period Period, balances []AccountBalance) IncomeStatement {
	revenue := newSection("Revenue")
	expenses := newSection("Expenses")

	for _, b := range sortByCode(balances) {
		movement := b.Debit.Sub(b.Credit)
		switch b.AccountType {
		case accounts.TypeRevenue:
			revenue.add(b, movement.Neg())
		case accounts.TypeExpense:
			expenses.add(b, movement)
		}
	}

	return IncomeStatement{
		Period:    period,
		Revenue:   revenue,
		Expenses:  expenses,
		NetIncome: revenue.Total.Sub(expenses.Total),
	}
}

// BuildBalanceSheet classifies closing balances at asOf. Balances must cover
// all history up to asOf.
func BuildBalanceSheet(asOf time.Time, balances []AccountBalance) BalanceSheet {
	assets := newSection("Assets")
	liabilities := newSection("Liabilities")
	equity := newSection("Equity")
	earnings := types.Zero()

	for _, b := range sortByCode(balances) {
		switch b.AccountType {
		case accounts.TypeAsset:
			assets.add(b, b.Natural())
		case accounts.TypeLiability:
			liabilities.add(b, b.Natural())
		case accounts.TypeEquity:
			equity.add(b, b.Natural())
		case accounts.TypeRevenue, accounts.TypeExpense:
			earnings = earnings.Sub(b.Closing())
		}
	}

	total := liabilities.Total.Add(equity.Total).Add(earnings)
	return BalanceSheet{
		AsOf:                      asOf,
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		CurrentEarnings:           earnings,
		TotalLiabilitiesAndEquity: total,
		Balanced:                  assets.Total.Equal(total),
	}
}

// Cash flow activities, keyed by reference prefix.
var activities = []struct {
	prefix string
	label  string
}{
	{ledger.RefSale, "Sales"},
	{ledger.RefCollection, "Receivable collections"},
	{ledger.RefSalesReturn, "Sales returns"},
	{ledger.RefPurchase, "Purchases"},
	{ledger.RefPurchaseReturn, "Purchase returns"},
	{ledger.RefSupplierPayment, "Supplier payments"},
	{ledger.RefExpense, "Expenses"},
	{ledger.RefManualEntry, "Manual entries"},
}

// Activity names the cash flow activity behind a reference ID.
func Activity(referenceID string) string {
	prefix := referenceID
	if i := strings.IndexByte(referenceID, '#'); i >= 0 {
		prefix = referenceID[:i+1]
	}
	for _, a := range activities {
		if a.prefix == prefix {
			return a.label
		}
	}
	return "Other"
}

// BuildCashFlow groups cash entries by activity. Debits to cash are inflows.
func BuildCashFlow(period Period, opening types.Money, lines []CashLine) CashFlow {
	byActivity := make(map[string]*CashFlowLine)
	cf := CashFlow{
		Period:       period,
		OpeningCash:  opening,
		Lines:        []CashFlowLine{},
		TotalInflow:  types.Zero(),
		TotalOutflow: types.Zero(),
	}

	seen := make(map[string]map[int64]bool)
	for _, l := range lines {
		name := Activity(l.ReferenceID)
		row, ok := byActivity[name]
		if !ok {
			row = &CashFlowLine{Activity: name, Inflow: types.Zero(), Outflow: types.Zero()}
			byActivity[name] = row
			seen[name] = make(map[int64]bool)
		}
		if !seen[name][l.TransactionID] {
			seen[name][l.TransactionID] = true
			row.Count++
		}
		if l.EntryType == ledger.Debit {
			row.Inflow = row.Inflow.Add(l.Amount)
			cf.TotalInflow = cf.TotalInflow.Add(l.Amount)
		} else {
			row.Outflow = row.Outflow.Add(l.Amount)
			cf.TotalOutflow = cf.TotalOutflow.Add(l.Amount)
		}
	}

	order := append(activityLabels(), "Other")
	for _, name := range order {
		if row, ok := byActivity[name]; ok {
			row.Net = row.Inflow.Sub(row.Outflow)
			cf.Lines = append(cf.Lines, *row)
		}
	}
	cf.ClosingCash = opening.Add(cf.TotalInflow).Sub(cf.TotalOutflow)
	return cf
}

func activityLabels() []string {
	labels := make([]string, len(activities))
	for i, a := range activities {
		labels[i] = a.label
	}
	return labels
}

// BuildSalesReport aggregates sales and returns per day, oldest first.
func BuildSalesReport(period Period, lines []SaleLine) SalesReport {
	days := make(map[string]*SalesDay)
	report := SalesReport{
		Period:    period,
		Days:      []SalesDay{},
		Gross:     types.Zero(),
		Discounts: types.Zero(),
		Refunds:   types.Zero(),
		Net:       types.Zero(),
	}

	for _, l := range lines {
		key := l.Date.Format(time.DateOnly)
		day, ok := days[key]
		if !ok {
			day = &SalesDay{
				Date:      types.NewDate(l.Date),
				Gross:     types.Zero(),
				Discounts: types.Zero(),
				Refunds:   types.Zero(),
			}
			days[key] = day
		}
		if l.IsReturn {
			day.Returns++
			day.Refunds = day.Refunds.Add(l.Subtotal)
			continue
		}
		day.Sales++
		day.Gross = day.Gross.Add(l.Subtotal)
		day.Discounts = day.Discounts.Add(l.Discount)
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		day := days[k]
		day.Net = day.Gross.Sub(day.Discounts).Sub(day.Refunds)
		report.Days = append(report.Days, *day)
		report.Gross = report.Gross.Add(day.Gross)
		report.Discounts = report.Discounts.Add(day.Discounts)
		report.Refunds = report.Refunds.Add(day.Refunds)
		report.Net = report.Net.Add(day.Net)
	}
	return report
}

// BuildExpenseReport totals expenses per account, largest first.
func BuildExpenseReport(period Period, lines []ExpenseLine) ExpenseReport {
	byAccount := make(map[int64]*ExpenseRow)
	report := ExpenseReport{Period: period, Rows: []ExpenseRow{}, Total: types.Zero()}

	for _, l := range lines {
		row, ok := byAccount[l.AccountID]
		if !ok {
			row = &ExpenseRow{AccountID: l.AccountID, Code: l.Code, Name: l.Name, Total: types.Zero()}
			byAccount[l.AccountID] = row
		}
		row.Count++
		row.Total = row.Total.Add(l.Amount)
		report.Total = report.Total.Add(l.Amount)
	}

	for _, row := range byAccount {
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Code < b.Code
	})
	return report
}

// BuildInventoryReport values each product at stock × price.
func BuildInventoryReport(rows []InventoryRow) InventoryReport {
	report := InventoryReport{Rows: make([]InventoryRow, 0, len(rows)), TotalValue: types.Zero()}
	for _, r := range rows {
		r.Value = types.LineTotal(r.Stock, r.Price)
		report.Rows = append(report.Rows, r)
		report.TotalUnits += r.Stock
		report.TotalValue = report.TotalValue.Add(r.Value)
	}
	return report
}

// BuildReceivablesReport totals outstanding credit sales.
func BuildReceivablesReport(rows []ReceivableRow) ReceivablesReport {
	report := ReceivablesReport{Rows: []ReceivableRow{}, Total: types.Zero()}
	for _, r := range rows {
		if !r.PayableAmount.IsPositive() {
			continue
		}
		report.Rows = append(report.Rows, r)
		report.Total = report.Total.Add(r.PayableAmount)
	}
	return report
}

// BuildPayablesReport totals supplier payables. Negative payables (supplier
// owes us after a credit return) are listed and reduce the total.
func BuildPayablesReport(rows []PayableRow) PayablesReport {
	report := PayablesReport{Rows: []PayableRow{}, Total: types.Zero()}
	for _, r := range rows {
		if r.PayableAmount.IsZero() {
			continue
		}
		report.Rows = append(report.Rows, r)
		report.Total = report.Total.Add(r.PayableAmount)
	}
	return report
}

func newSection(label string) StatementSection {
	return StatementSection{Label: label, Accounts: []StatementLine{}, Total: types.Zero()}
}

func (s *StatementSection) add(b AccountBalance, amount types.Money) {
	if amount.IsZero() && b.Debit.IsZero() && b.Credit.IsZero() {
		return
	}
	s.Accounts = append(s.Accounts, StatementLine{AccountID: b.AccountID, Code: b.Code, Name: b.Name, Amount: amount})
	s.Total = s.Total.Add(amount)
}

func sortByCode(balances []AccountBalance) []AccountBalance {
	sorted := make([]AccountBalance, len(balances))
	copy(sorted, balances)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return sorted
}
