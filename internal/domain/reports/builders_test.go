package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
)

func m(v int64) types.Money { return types.NewMoneyFromInt(v) }

func sampleBalances() []AccountBalance {
	return []AccountBalance{
		{AccountID: 1, Code: "1-001", Name: "Cash", AccountType: accounts.TypeAsset, Opening: m(1000), Debit: m(300), Credit: m(200)},
		{AccountID: 3, Code: "1-003", Name: "Inventory", AccountType: accounts.TypeAsset, Opening: m(0), Debit: m(200), Credit: m(0)},
		{AccountID: 4, Code: "2-001", Name: "Accounts Payable", AccountType: accounts.TypeLiability, Opening: m(0), Debit: m(0), Credit: m(50)},
		{AccountID: 5, Code: "3-001", Name: "Owner's Capital", AccountType: accounts.TypeEquity, Opening: m(-1000), Debit: m(0), Credit: m(0)},
		{AccountID: 6, Code: "4-001", Name: "Sales Revenue", AccountType: accounts.TypeRevenue, Opening: m(0), Debit: m(0), Credit: m(300)},
		{AccountID: 7, Code: "4-002", Name: "Sales Returns", AccountType: accounts.TypeRevenue, Opening: m(0), Debit: m(20), Credit: m(0)},
		{AccountID: 8, Code: "5-001", Name: "Rent", AccountType: accounts.TypeExpense, Opening: m(0), Debit: m(30), Credit: m(0)},
		{AccountID: 9, Code: "5-002", Name: "Utilities", AccountType: accounts.TypeExpense},
	}
}

func TestBuildTrialBalance(t *testing.T) {
	tb := BuildTrialBalance(Period{}, sampleBalances())

	require.Len(t, tb.Rows, 7, "accounts without activity are skipped")
	assert.Equal(t, "1-001", tb.Rows[0].Code)
	assert.True(t, tb.TotalDebit.Equal(m(550)), tb.TotalDebit.String())
	assert.True(t, tb.TotalCredit.Equal(m(550)), tb.TotalCredit.String())
	assert.True(t, tb.Rows[0].Closing.Equal(m(1100)))
	assert.True(t, tb.Balanced)
}

func TestBuildTrialBalance_Unbalanced(t *testing.T) {
	balances := []AccountBalance{
		{AccountID: 1, Code: "1-001", AccountType: accounts.TypeAsset, Debit: m(10)},
	}
	assert.False(t, BuildTrialBalance(Period{}, balances).Balanced)
}

func TestBuildIncomeStatement(t *testing.T) {
	is := BuildIncomeStatement(Period{}, sampleBalances())

	assert.True(t, is.Revenue.Total.Equal(m(280)), "returns reduce revenue: %s", is.Revenue.Total)
	assert.True(t, is.Expenses.Total.Equal(m(30)))
	assert.True(t, is.NetIncome.Equal(m(250)))
	require.Len(t, is.Revenue.Accounts, 2)
	assert.True(t, is.Revenue.Accounts[1].Amount.Equal(m(-20)))
	assert.Len(t, is.Expenses.Accounts, 1)
}

func TestBuildBalanceSheet(t *testing.T) {
	bs := BuildBalanceSheet(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), sampleBalances())

	assert.True(t, bs.Assets.Total.Equal(m(1300)), bs.Assets.Total.String())
	assert.True(t, bs.Liabilities.Total.Equal(m(50)))
	assert.True(t, bs.Equity.Total.Equal(m(1000)))
	assert.True(t, bs.CurrentEarnings.Equal(m(250)))
	assert.True(t, bs.TotalLiabilitiesAndEquity.Equal(m(1300)))
	assert.True(t, bs.Balanced)
}

func TestActivity(t *testing.T) {
	tests := map[string]string{
		"S#1":   "Sales",
		"RC#4":  "Receivable collections",
		"PR#2":  "Purchase returns",
		"P#2":   "Purchases",
		"Exp#9": "Expenses",
		"SP#3":  "Supplier payments",
		"X#1":   "Other",
	}
	for ref, want := range tests {
		assert.Equal(t, want, Activity(ref), ref)
	}
}

func TestBuildCashFlow(t *testing.T) {
	lines := []CashLine{
		{TransactionID: 1, ReferenceID: "S#1", EntryType: ledger.Debit, Amount: m(100)},
		{TransactionID: 2, ReferenceID: "S#2", EntryType: ledger.Debit, Amount: m(50)},
		{TransactionID: 3, ReferenceID: "P#1", EntryType: ledger.Credit, Amount: m(80)},
		{TransactionID: 4, ReferenceID: "Exp#1", EntryType: ledger.Credit, Amount: m(20)},
	}

	cf := BuildCashFlow(Period{}, m(500), lines)

	require.Len(t, cf.Lines, 3)
	assert.Equal(t, "Sales", cf.Lines[0].Activity)
	assert.Equal(t, 2, cf.Lines[0].Count)
	assert.True(t, cf.Lines[0].Net.Equal(m(150)))
	assert.Equal(t, "Purchases", cf.Lines[1].Activity)
	assert.True(t, cf.TotalInflow.Equal(m(150)))
	assert.True(t, cf.TotalOutflow.Equal(m(100)))
	assert.True(t, cf.ClosingCash.Equal(m(550)))
}

func TestBuildSalesReport(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	lines := []SaleLine{
		{Date: d2, Subtotal: m(40), Discount: m(0)},
		{Date: d1, Subtotal: m(100), Discount: m(10)},
		{Date: d1, Subtotal: m(60), Discount: m(0)},
		{Date: d1, IsReturn: true, Subtotal: m(30)},
	}

	r := BuildSalesReport(Period{}, lines)

	require.Len(t, r.Days, 2)
	day := r.Days[0]
	assert.Equal(t, d1, day.Date.Time)
	assert.Equal(t, 2, day.Sales)
	assert.Equal(t, 1, day.Returns)
	assert.True(t, day.Net.Equal(m(120)), day.Net.String())
	assert.True(t, r.Net.Equal(m(160)))
	assert.True(t, r.Discounts.Equal(m(10)))
}

func TestBuildExpenseReport(t *testing.T) {
	lines := []ExpenseLine{
		{AccountID: 8, Code: "5-001", Name: "Rent", Amount: m(30)},
		{AccountID: 9, Code: "5-002", Name: "Utilities", Amount: m(45)},
		{AccountID: 8, Code: "5-001", Name: "Rent", Amount: m(30)},
	}

	r := BuildExpenseReport(Period{}, lines)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, "Rent", r.Rows[0].Name)
	assert.Equal(t, 2, r.Rows[0].Count)
	assert.True(t, r.Total.Equal(m(105)))
}

func TestBuildInventoryReport(t *testing.T) {
	r := BuildInventoryReport([]InventoryRow{
		{ProductID: 1, Name: "Tea", Stock: 15, Price: m(110)},
		{ProductID: 2, Name: "Sugar", Stock: 0, Price: m(0)},
	})

	assert.Equal(t, int64(15), r.TotalUnits)
	assert.True(t, r.Rows[0].Value.Equal(m(1650)))
	assert.True(t, r.TotalValue.Equal(m(1650)))
}

func TestBuildReceivablesAndPayables(t *testing.T) {
	rec := BuildReceivablesReport([]ReceivableRow{
		{SaleID: 1, PayableAmount: m(70)},
		{SaleID: 2, PayableAmount: m(0)},
	})
	assert.Len(t, rec.Rows, 1)
	assert.True(t, rec.Total.Equal(m(70)))

	pay := BuildPayablesReport([]PayableRow{
		{SupplierID: 1, PayableAmount: m(300)},
		{SupplierID: 2, PayableAmount: m(-50)},
		{SupplierID: 3, PayableAmount: m(0)},
	})
	assert.Len(t, pay.Rows, 2)
	assert.True(t, pay.Total.Equal(m(250)))
}
