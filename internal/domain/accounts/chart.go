package accounts

import (
	"context"
	"fmt"

	"bookkeeper/internal/domain"
)

// ChartAccount is an account of the default chart.
type ChartAccount struct {
	Name string
	Role Role
}

// ChartGroup is a group of the default chart.
type ChartGroup struct {
	Name     string
	Type     AccountType
	Accounts []ChartAccount
}

// DefaultChart is the minimal chart a shop needs, with every posting role bound.
var DefaultChart = []ChartGroup{
	{Name: "Current Assets", Type: TypeAsset, Accounts: []ChartAccount{
		{Name: "Cash", Role: RoleCash},
		{Name: "Accounts Receivable", Role: RoleAccountsReceivable},
		{Name: "Inventory", Role: RoleInventory},
	}},
	{Name: "Current Liabilities", Type: TypeLiability, Accounts: []ChartAccount{
		{Name: "Accounts Payable", Role: RoleAccountsPayable},
	}},
	{Name: "Owner's Equity", Type: TypeEquity, Accounts: []ChartAccount{
		{Name: "Owner's Capital", Role: RoleOwnerEquity},
	}},
	{Name: "Sales", Type: TypeRevenue, Accounts: []ChartAccount{
		{Name: "Sales Revenue", Role: RoleSalesRevenue},
		{Name: "Sales Returns", Role: RoleSalesReturns},
	}},
	{Name: "Operating Expenses", Type: TypeExpense, Accounts: []ChartAccount{
		{Name: "Rent Expense"},
		{Name: "Utilities Expense"},
		{Name: "Salaries Expense"},
		{Name: "General Expense"},
	}},
}

// InstallDefaultChart creates DefaultChart when the chart is empty.
// It reports whether anything was installed.
func InstallDefaultChart(ctx context.Context, groups *GroupService, accounts *AccountService) (bool, error) {
	existing, err := groups.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		return false, fmt.Errorf("list account groups: %w", err)
	}
	if existing.TotalCount > 0 {
		return false, nil
	}

	for _, cg := range DefaultChart {
		g := &Group{Name: cg.Name, AccountType: cg.Type}
		if err := groups.Create(ctx, g); err != nil {
			return false, fmt.Errorf("create group %q: %w", cg.Name, err)
		}
		for _, ca := range cg.Accounts {
			a := &Account{GroupID: g.ID, Name: ca.Name}
			if ca.Role != "" {
				role := ca.Role
				a.Role = &role
			}
			if err := accounts.Create(ctx, a); err != nil {
				return false, fmt.Errorf("create account %q: %w", ca.Name, err)
			}
		}
	}
	return true, nil
}
