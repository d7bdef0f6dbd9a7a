package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/config"
	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/manual_entry"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
	"bookkeeper/internal/domain/reports"
)

var day = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{StorageDriver: config.DriverMemory, IdempotencyTTL: time.Hour}
	a, err := Build(context.Background(), cfg, MemoryRepositories(cfg))
	require.NoError(t, err)
	return a
}

func doc() entity.Document {
	return entity.Document{Date: day}
}

func money(s string) types.Money {
	return types.MustMoney(s)
}

func createProduct(t *testing.T, a *App, stock int64, price string) *product.Product {
	t.Helper()
	p := &product.Product{Name: "Widget", Stock: stock, Price: money(price)}
	require.NoError(t, a.Products.Create(context.Background(), p))
	return p
}

func createSupplier(t *testing.T, a *App) *supplier.Supplier {
	t.Helper()
	s := &supplier.Supplier{Name: "Acme"}
	require.NoError(t, a.Suppliers.Create(context.Background(), s))
	return s
}

func reloadProduct(t *testing.T, a *App, id int64) *product.Product {
	t.Helper()
	p, err := a.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func countTransactions(t *testing.T, a *App) int64 {
	t.Helper()
	res, err := a.Engine.Recorder().List(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	return res.TotalCount
}

func accountNamed(t *testing.T, a *App, name string) int64 {
	t.Helper()
	res, err := a.Accounts.List(context.Background(), domain.ListFilter{Limit: 100})
	require.NoError(t, err)
	for _, acc := range res.Items {
		if acc.Name == name {
			return acc.ID
		}
	}
	t.Fatalf("account %q not found", name)
	return 0
}

func TestBuild_InstallsChartAndRoles(t *testing.T) {
	a := newTestApp(t)

	for _, role := range accounts.PostingRoles {
		_, err := a.Roles.Account(role)
		assert.NoError(t, err, role)
	}
}

func TestSale_CashDecrementsStockAndRecordsTransaction(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "40")

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 2, Price: money("50")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))

	assert.Equal(t, int64(8), reloadProduct(t, a, p.ID).Stock)
	assert.True(t, s.TotalPrice.Equal(money("100")))
	assert.NotEmpty(t, s.Number)

	tr, err := a.Engine.Recorder().GetByReference(ctx, s.Reference())
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeSale, tr.Type)
	require.Len(t, tr.Entries, 2)

	cash, _ := a.Roles.Account(accounts.RoleCash)
	revenue, _ := a.Roles.Account(accounts.RoleSalesRevenue)
	for _, e := range tr.Entries {
		assert.True(t, e.Amount.Equal(money("100")))
		switch e.Type {
		case ledger.Debit:
			assert.Equal(t, cash, e.LedgerAccountID)
		case ledger.Credit:
			assert.Equal(t, revenue, e.LedgerAccountID)
		}
	}
}

func TestSale_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "40")
	other := createProduct(t, a, 5, "10")

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items: []sale.Item{
			{ProductID: other.ID, Quantity: 1, Price: money("20")},
			{ProductID: p.ID, Quantity: 20, Price: money("50")},
		},
	}
	err := a.Sales.Create(ctx, s)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	assert.Equal(t, int64(10), reloadProduct(t, a, p.ID).Stock)
	assert.Equal(t, int64(5), reloadProduct(t, a, other.ID).Stock)
	assert.Zero(t, countTransactions(t, a))

	list, err := a.Sales.List(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestSale_UpdateAndDeleteReverse(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "40")

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 2, Price: money("50")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))
	number := s.Number

	edited := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 3, Price: money("50")}},
	}
	edited.ID = s.ID
	require.NoError(t, a.Sales.Update(ctx, edited))

	assert.Equal(t, int64(7), reloadProduct(t, a, p.ID).Stock)
	assert.Equal(t, number, edited.Number)
	assert.Equal(t, int64(1), countTransactions(t, a))

	tr, err := a.Engine.Recorder().GetByReference(ctx, s.Reference())
	require.NoError(t, err)
	assert.True(t, tr.TotalAmount.Equal(money("150")))

	require.NoError(t, a.Sales.Delete(ctx, s.ID))
	assert.Equal(t, int64(10), reloadProduct(t, a, p.ID).Stock)
	assert.Zero(t, countTransactions(t, a))

	_, err = a.Sales.GetByID(ctx, s.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestPurchase_WeightedAverageAndReversal(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "100")
	sup := createSupplier(t, a)

	pur := &purchase.Purchase{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Credit,
		Items:         []purchase.Item{{ProductID: p.ID, Quantity: 5, PurchasePrice: money("130")}},
	}
	require.NoError(t, a.Purchases.Create(ctx, pur))

	got := reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(15), got.Stock)
	assert.True(t, got.Price.Equal(money("110")), got.Price.String())

	s, err := a.Suppliers.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.True(t, s.PayableAmount.Equal(money("650")))

	tr, err := a.Engine.Recorder().GetByReference(ctx, pur.Reference())
	require.NoError(t, err)
	assert.Equal(t, ledger.TypePurchase, tr.Type)

	require.NoError(t, a.Purchases.Delete(ctx, pur.ID))

	got = reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(10), got.Stock)
	assert.True(t, got.Price.Equal(money("100")), got.Price.String())

	s, err = a.Suppliers.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.True(t, s.PayableAmount.IsZero())
	assert.Zero(t, countTransactions(t, a))
}

func TestPurchaseReturn_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 3, "10")
	sup := createSupplier(t, a)

	r := &purchase_return.PurchaseReturn{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Cash,
		Items:         []purchase_return.Item{{ProductID: p.ID, Quantity: 4, PurchaseReturnPrice: money("10")}},
	}
	err := a.PurchaseReturns.Create(ctx, r)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(3), reloadProduct(t, a, p.ID).Stock)
}

func TestSupplierPayment_Overpayment(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 0, "0")
	sup := createSupplier(t, a)

	require.NoError(t, a.Purchases.Create(ctx, &purchase.Purchase{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Credit,
		Items:         []purchase.Item{{ProductID: p.ID, Quantity: 2, PurchasePrice: money("50")}},
	}))

	err := a.SupplierPayments.Create(ctx, &supplier_payment.Payment{
		Document:   doc(),
		SupplierID: sup.ID,
		Amount:     money("150"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeOverpayment))

	pay := &supplier_payment.Payment{Document: doc(), SupplierID: sup.ID, Amount: money("60")}
	require.NoError(t, a.SupplierPayments.Create(ctx, pay))

	s, err := a.Suppliers.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.True(t, s.PayableAmount.Equal(money("40")))

	require.NoError(t, a.SupplierPayments.Delete(ctx, pay.ID))
	s, err = a.Suppliers.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.True(t, s.PayableAmount.Equal(money("100")))
}

func TestCreditSale_CollectionAndReturn(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "20")

	s := &sale.Sale{
		Document:      doc(),
		CustomerName:  "Ali",
		PaymentMethod: posting.Credit,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 4, Price: money("25")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))
	assert.True(t, s.PayableAmount.Equal(money("100")))

	outstanding, err := a.Sales.Outstanding(ctx, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, outstanding.Items, 1)

	col := &sale.Collection{Document: doc(), SaleID: s.ID, Amount: money("30")}
	require.NoError(t, a.Sales.Collect(ctx, col))

	got, err := a.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.PayableAmount.Equal(money("70")))

	err = a.Sales.Collect(ctx, &sale.Collection{Document: doc(), SaleID: s.ID, Amount: money("80")})
	assert.True(t, apperror.HasCode(err, apperror.CodeOverpayment))

	// Settled sales cannot be rewritten.
	err = a.Sales.Delete(ctx, s.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInUse))

	saleID := s.ID
	ret := &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Credit,
		SaleID:        &saleID,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 1, ReturnPrice: money("25")}},
	}
	require.NoError(t, a.SalesReturns.Create(ctx, ret))

	assert.Equal(t, int64(7), reloadProduct(t, a, p.ID).Stock)
	got, err = a.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.PayableAmount.Equal(money("45")))

	require.NoError(t, a.SalesReturns.Delete(ctx, ret.ID))
	require.NoError(t, a.Sales.DeleteCollection(ctx, col.ID))

	got, err = a.Sales.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.PayableAmount.Equal(money("100")))
	assert.Equal(t, int64(6), reloadProduct(t, a, p.ID).Stock)
}

func TestCollection_RequiresCreditSale(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "20")

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 1, Price: money("25")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))

	err := a.Sales.Collect(ctx, &sale.Collection{Document: doc(), SaleID: s.ID, Amount: money("5")})
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule))
}

func TestExpense_PostsAgainstCash(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	rent := accountNamed(t, a, "Rent Expense")

	e := &expense.Expense{Document: doc(), LedgerAccountID: rent, Amount: money("500")}
	require.NoError(t, a.Expenses.Create(ctx, e))

	tr, err := a.Engine.Recorder().GetByReference(ctx, e.Reference())
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeExpense, tr.Type)
	assert.True(t, tr.TotalAmount.Equal(money("500")))

	cash, _ := a.Roles.Account(accounts.RoleCash)
	bad := &expense.Expense{Document: doc(), LedgerAccountID: cash, Amount: money("1")}
	assert.Error(t, a.Expenses.Create(ctx, bad))
}

func TestManualEntry_BalancedAndReRecorded(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	cash, _ := a.Roles.Account(accounts.RoleCash)
	equity, _ := a.Roles.Account(accounts.RoleOwnerEquity)

	unbalanced := &manual_entry.ManualEntry{
		Document: doc(),
		Lines: []ledger.Line{
			{AccountID: cash, Type: ledger.Debit, Amount: money("100")},
			{AccountID: equity, Type: ledger.Credit, Amount: money("90")},
		},
	}
	err := a.ManualEntries.Create(ctx, unbalanced)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnbalancedEntry))
	assert.Zero(t, countTransactions(t, a))

	m := &manual_entry.ManualEntry{
		Document: doc(),
		Lines: []ledger.Line{
			{AccountID: cash, Type: ledger.Debit, Amount: money("1000")},
			{AccountID: equity, Type: ledger.Credit, Amount: money("1000")},
		},
	}
	require.NoError(t, a.ManualEntries.Create(ctx, m))

	tr, err := a.Engine.Recorder().GetByReference(ctx, m.Reference())
	require.NoError(t, err)
	entryID, err := a.ManualEntries.EntryID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, entryID)

	m.Lines[0].Amount = money("1200")
	m.Lines[1].Amount = money("1200")
	require.NoError(t, a.ManualEntries.Update(ctx, m))

	again, err := a.Engine.Recorder().GetByReference(ctx, m.Reference())
	require.NoError(t, err)
	assert.True(t, again.TotalAmount.Equal(money("1200")))
	assert.Equal(t, int64(1), countTransactions(t, a))

	require.NoError(t, a.ManualEntries.Delete(ctx, m.ID))
	assert.Zero(t, countTransactions(t, a))
}

func TestManualEntry_EntryIDRejectsOtherTransactions(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	rent := accountNamed(t, a, "Rent Expense")

	e := &expense.Expense{Document: doc(), LedgerAccountID: rent, Amount: money("10")}
	require.NoError(t, a.Expenses.Create(ctx, e))
	tr, err := a.Engine.Recorder().GetByReference(ctx, e.Reference())
	require.NoError(t, err)

	_, err = a.ManualEntries.EntryID(ctx, tr.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule))
}

func TestReports_TrialBalanceBalances(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 0, "0")
	sup := createSupplier(t, a)

	require.NoError(t, a.Purchases.Create(ctx, &purchase.Purchase{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Cash,
		Items:         []purchase.Item{{ProductID: p.ID, Quantity: 10, PurchasePrice: money("5")}},
	}))
	require.NoError(t, a.Sales.Create(ctx, &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 4, Price: money("9")}},
	}))

	from, to := day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)
	tb, err := a.Reports.TrialBalance(ctx, reports.Period{From: &from, To: &to})
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))

	inv, err := a.Reports.Inventory(ctx)
	require.NoError(t, err)
	assert.True(t, inv.TotalValue.Equal(money("30")), inv.TotalValue.String())
}

func TestPurchase_IdenticalEditIsNeutral(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "100")
	sup := createSupplier(t, a)

	items := []purchase.Item{{ProductID: p.ID, Quantity: 5, PurchasePrice: money("130")}}
	pur := &purchase.Purchase{Document: doc(), SupplierID: sup.ID, PaymentMethod: posting.Cash, Items: items}
	require.NoError(t, a.Purchases.Create(ctx, pur))

	same := &purchase.Purchase{Document: doc(), SupplierID: sup.ID, PaymentMethod: posting.Cash, Items: items}
	same.ID = pur.ID
	require.NoError(t, a.Purchases.Update(ctx, same))

	got := reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(15), got.Stock)
	assert.True(t, got.Price.Equal(money("110")), got.Price.String())

	res, err := a.Engine.Recorder().List(ctx, ledger.Filter{ReferenceID: pur.Reference()})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Len(t, res.Items[0].Entries, 2)
	for _, e := range res.Items[0].Entries {
		assert.True(t, e.Amount.Equal(res.Items[0].TotalAmount))
	}
}

func TestSalesReturn_RestoresStockAtCurrentPrice(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "40")

	require.NoError(t, a.Sales.Create(ctx, &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 3, Price: money("55")}},
	}))
	require.NoError(t, a.SalesReturns.Create(ctx, &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 3, ReturnPrice: money("55")}},
	}))

	got := reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(10), got.Stock)
	assert.True(t, got.Price.Equal(money("40")), got.Price.String())
	assert.Equal(t, int64(2), countTransactions(t, a))
}

func TestChart_CodesAndDeleteGuards(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	g := &accounts.Group{Name: "Utilities", AccountType: accounts.TypeExpense}
	require.NoError(t, a.AccountGroups.Create(ctx, g))

	power := &accounts.Account{GroupID: g.ID, Name: "Electricity"}
	require.NoError(t, a.Accounts.Create(ctx, power))
	water := &accounts.Account{GroupID: g.ID, Name: "Water"}
	require.NoError(t, a.Accounts.Create(ctx, water))

	assert.Regexp(t, `^5-\d{3}$`, power.Code)
	assert.Greater(t, water.Code, power.Code)

	err := a.AccountGroups.Delete(ctx, g.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInUse), err)

	require.NoError(t, a.Accounts.Delete(ctx, water.ID))

	cash, _ := a.Roles.Account(accounts.RoleCash)
	err = a.Accounts.Delete(ctx, cash)
	assert.True(t, apperror.HasCode(err, apperror.CodeInUse), err)

	require.NoError(t, a.Expenses.Create(ctx, &expense.Expense{Document: doc(), LedgerAccountID: power.ID, Amount: money("40")}))
	err = a.Accounts.Delete(ctx, power.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInUse), err)
}
