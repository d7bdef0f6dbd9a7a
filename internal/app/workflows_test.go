package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
)

// requireTwoLegs asserts exactly one transaction carries ref, with a debit
// and a credit of total on the given accounts.
func requireTwoLegs(t *testing.T, a *App, ref string, debit, credit int64, total string) {
	t.Helper()
	res, err := a.Engine.Recorder().List(context.Background(), ledger.Filter{ReferenceID: ref})
	require.NoError(t, err)
	require.Len(t, res.Items, 1, ref)

	tr := res.Items[0]
	assert.True(t, tr.TotalAmount.Equal(money(total)), tr.TotalAmount.String())
	require.Len(t, tr.Entries, 2)
	for _, e := range tr.Entries {
		assert.True(t, e.Amount.Equal(money(total)), e.Amount.String())
		if e.Type == ledger.Debit {
			assert.Equal(t, debit, e.LedgerAccountID)
		} else {
			assert.Equal(t, credit, e.LedgerAccountID)
		}
	}
}

func assertMoney(t *testing.T, want string, got types.Money) {
	t.Helper()
	assert.True(t, got.Equal(money(want)), "want %s, got %s", want, got.String())
}

func salePayable(t *testing.T, a *App, id int64) types.Money {
	t.Helper()
	s, err := a.Sales.GetByID(context.Background(), id)
	require.NoError(t, err)
	return s.PayableAmount
}

func supplierPayable(t *testing.T, a *App, id int64) types.Money {
	t.Helper()
	s, err := a.Suppliers.GetByID(context.Background(), id)
	require.NoError(t, err)
	return s.PayableAmount
}

func TestSalesReturn_CreditFloorsReceivableAtZero(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "20")
	salesReturns, _ := a.Roles.Account(accounts.RoleSalesReturns)
	receivable, _ := a.Roles.Account(accounts.RoleAccountsReceivable)

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Credit,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 4, Price: money("25")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))
	col := &sale.Collection{Document: doc(), SaleID: s.ID, Amount: money("90")}
	require.NoError(t, a.Sales.Collect(ctx, col))
	assertMoney(t, "10", salePayable(t, a, s.ID))

	saleID := s.ID
	ret := &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Credit,
		SaleID:        &saleID,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 1, ReturnPrice: money("25")}},
	}
	require.NoError(t, a.SalesReturns.Create(ctx, ret))

	assertMoney(t, "0", salePayable(t, a, s.ID))
	assert.True(t, ret.ReceivableApplied.Equal(money("10")), ret.ReceivableApplied.String())
	stored, err := a.SalesReturns.GetByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.True(t, stored.ReceivableApplied.Equal(money("10")))
	assert.Equal(t, int64(7), reloadProduct(t, a, p.ID).Stock)
	requireTwoLegs(t, a, ret.Reference(), salesReturns, receivable, "25")

	edited := &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Credit,
		SaleID:        &saleID,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 2, ReturnPrice: money("25")}},
	}
	edited.ID = ret.ID
	require.NoError(t, a.SalesReturns.Update(ctx, edited))

	assertMoney(t, "0", salePayable(t, a, s.ID))
	assert.True(t, edited.ReceivableApplied.Equal(money("10")))
	assert.Equal(t, int64(8), reloadProduct(t, a, p.ID).Stock)
	requireTwoLegs(t, a, ret.Reference(), salesReturns, receivable, "50")

	// Undoing the collection first must not let the return's reversal
	// restore more than it took.
	require.NoError(t, a.Sales.DeleteCollection(ctx, col.ID))
	assertMoney(t, "90", salePayable(t, a, s.ID))
	require.NoError(t, a.SalesReturns.Delete(ctx, ret.ID))
	assertMoney(t, "100", salePayable(t, a, s.ID))
	assert.Equal(t, int64(6), reloadProduct(t, a, p.ID).Stock)
}

func TestSalesReturn_CreditOnSettledSaleAppliesNothing(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 5, "20")

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Credit,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 2, Price: money("30")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))
	require.NoError(t, a.Sales.Collect(ctx, &sale.Collection{Document: doc(), SaleID: s.ID, Amount: money("60")}))

	saleID := s.ID
	ret := &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Credit,
		SaleID:        &saleID,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 1, ReturnPrice: money("30")}},
	}
	require.NoError(t, a.SalesReturns.Create(ctx, ret))
	assert.True(t, ret.ReceivableApplied.IsZero())
	assertMoney(t, "0", salePayable(t, a, s.ID))

	require.NoError(t, a.SalesReturns.Delete(ctx, ret.ID))
	assertMoney(t, "0", salePayable(t, a, s.ID))
}

func TestSalesReturn_CashUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "20")
	salesReturns, _ := a.Roles.Account(accounts.RoleSalesReturns)
	cash, _ := a.Roles.Account(accounts.RoleCash)

	require.NoError(t, a.Sales.Create(ctx, &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 3, Price: money("25")}},
	}))

	ret := &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 1, ReturnPrice: money("25")}},
	}
	require.NoError(t, a.SalesReturns.Create(ctx, ret))
	assert.Equal(t, int64(8), reloadProduct(t, a, p.ID).Stock)

	edited := &sales_return.SalesReturn{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sales_return.Item{{ProductID: p.ID, Quantity: 2, ReturnPrice: money("25")}},
	}
	edited.ID = ret.ID
	require.NoError(t, a.SalesReturns.Update(ctx, edited))

	got := reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(9), got.Stock)
	assert.True(t, got.Price.Equal(money("20")))
	assert.Equal(t, ret.Number, edited.Number)
	requireTwoLegs(t, a, ret.Reference(), salesReturns, cash, "50")

	require.NoError(t, a.SalesReturns.Delete(ctx, ret.ID))
	assert.Equal(t, int64(7), reloadProduct(t, a, p.ID).Stock)
	assert.Equal(t, int64(1), countTransactions(t, a))
}

func TestPurchaseReturn_CreditPostUpdateDelete(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 10, "100")
	sup := createSupplier(t, a)
	payable, _ := a.Roles.Account(accounts.RoleAccountsPayable)
	inventory, _ := a.Roles.Account(accounts.RoleInventory)

	require.NoError(t, a.Purchases.Create(ctx, &purchase.Purchase{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Credit,
		Items:         []purchase.Item{{ProductID: p.ID, Quantity: 5, PurchasePrice: money("130")}},
	}))
	assertMoney(t, "650", supplierPayable(t, a, sup.ID))

	r := &purchase_return.PurchaseReturn{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Credit,
		Items:         []purchase_return.Item{{ProductID: p.ID, Quantity: 3, PurchaseReturnPrice: money("130")}},
	}
	require.NoError(t, a.PurchaseReturns.Create(ctx, r))

	// (15*110 - 3*130) / 12
	got := reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(12), got.Stock)
	assert.True(t, got.Price.Equal(money("105")), got.Price.String())
	assertMoney(t, "260", supplierPayable(t, a, sup.ID))
	requireTwoLegs(t, a, r.Reference(), payable, inventory, "390")

	edited := &purchase_return.PurchaseReturn{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Credit,
		Items:         []purchase_return.Item{{ProductID: p.ID, Quantity: 5, PurchaseReturnPrice: money("130")}},
	}
	edited.ID = r.ID
	require.NoError(t, a.PurchaseReturns.Update(ctx, edited))

	got = reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(10), got.Stock)
	assert.True(t, got.Price.Equal(money("100")), got.Price.String())
	assertMoney(t, "0", supplierPayable(t, a, sup.ID))
	requireTwoLegs(t, a, r.Reference(), payable, inventory, "650")

	require.NoError(t, a.PurchaseReturns.Delete(ctx, r.ID))

	got = reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(15), got.Stock)
	assert.True(t, got.Price.Equal(money("110")), got.Price.String())
	assertMoney(t, "650", supplierPayable(t, a, sup.ID))
	assert.Equal(t, int64(1), countTransactions(t, a))
}

func TestExpense_UpdateMovesAccountAndAmount(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	rent := accountNamed(t, a, "Rent Expense")
	utilities := accountNamed(t, a, "Utilities Expense")
	cash, _ := a.Roles.Account(accounts.RoleCash)

	e := &expense.Expense{Document: doc(), LedgerAccountID: rent, Amount: money("500")}
	require.NoError(t, a.Expenses.Create(ctx, e))

	edited := &expense.Expense{Document: doc(), LedgerAccountID: utilities, Amount: money("300")}
	edited.ID = e.ID
	require.NoError(t, a.Expenses.Update(ctx, edited))
	requireTwoLegs(t, a, e.Reference(), utilities, cash, "300")

	require.NoError(t, a.Expenses.Delete(ctx, e.ID))
	assert.Zero(t, countTransactions(t, a))
}

func TestSale_FullDiscountPostsZeroEntries(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 5, "10")
	cash, _ := a.Roles.Account(accounts.RoleCash)
	revenue, _ := a.Roles.Account(accounts.RoleSalesRevenue)

	s := &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Discount:      money("50"),
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 5, Price: money("10")}},
	}
	require.NoError(t, a.Sales.Create(ctx, s))
	assert.True(t, s.TotalPrice.IsZero())
	assert.Equal(t, int64(0), reloadProduct(t, a, p.ID).Stock)
	requireTwoLegs(t, a, s.Reference(), cash, revenue, "0")
}

func TestPurchase_DeleteAfterSellThroughGoesNegative(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)
	p := createProduct(t, a, 0, "0")
	sup := createSupplier(t, a)

	pur := &purchase.Purchase{
		Document:      doc(),
		SupplierID:    sup.ID,
		PaymentMethod: posting.Cash,
		Items:         []purchase.Item{{ProductID: p.ID, Quantity: 5, PurchasePrice: money("10")}},
	}
	require.NoError(t, a.Purchases.Create(ctx, pur))
	require.NoError(t, a.Sales.Create(ctx, &sale.Sale{
		Document:      doc(),
		PaymentMethod: posting.Cash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 5, Price: money("10")}},
	}))

	require.NoError(t, a.Purchases.Delete(ctx, pur.ID))

	got := reloadProduct(t, a, p.ID)
	assert.Equal(t, int64(-5), got.Stock)
	assert.True(t, got.Price.IsZero(), got.Price.String())
}
