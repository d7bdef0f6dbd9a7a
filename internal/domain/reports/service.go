package reports

import (
	"context"
	"fmt"
	"time"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
)

// Service provides report generation operations.
type Service struct {
	repo  Repository
	roles accounts.Roles
	now   func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, roles accounts.Roles) *Service {
	return &Service{repo: repo, roles: roles, now: func() time.Time { return time.Now().UTC() }}
}

func validatePeriod(p Period) error {
	if p.From != nil && p.To != nil && p.From.After(*p.To) {
		return apperror.NewValidation("from must not be after to").
			WithDetail("from", p.From.Format(time.DateOnly)).
			WithDetail("to", p.To.Format(time.DateOnly))
	}
	return nil
}

// TrialBalance generates the trial balance for a period.
func (s *Service) TrialBalance(ctx context.Context, period Period) (*TrialBalance, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	balances, err := s.repo.AccountBalances(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("get account balances: %w", err)
	}
	tb := BuildTrialBalance(period, balances)
	return &tb, nil
}

// IncomeStatement generates the income statement for a period.
func (s *Service) IncomeStatement(ctx context.Context, period Period) (*IncomeStatement, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	balances, err := s.repo.AccountBalances(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("get account balances: %w", err)
	}
	is := BuildIncomeStatement(period, balances)
	return &is, nil
}

// BalanceSheet generates the balance sheet at asOf; nil means today.
func (s *Service) BalanceSheet(ctx context.Context, asOf *time.Time) (*BalanceSheet, error) {
	at := s.now()
	if asOf != nil {
		at = *asOf
	}
	balances, err := s.repo.AccountBalances(ctx, Period{To: &at})
	if err != nil {
		return nil, fmt.Errorf("get account balances: %w", err)
	}
	bs := BuildBalanceSheet(at, balances)
	return &bs, nil
}

// CashFlow generates the cash flow for a period.
func (s *Service) CashFlow(ctx context.Context, period Period) (*CashFlow, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	cashID, err := s.roles.Account(accounts.RoleCash)
	if err != nil {
		return nil, err
	}

	balances, err := s.repo.AccountBalances(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("get account balances: %w", err)
	}
	opening := types.Zero()
	for _, b := range balances {
		if b.AccountID == cashID {
			opening = b.Opening
			break
		}
	}

	lines, err := s.repo.CashLines(ctx, cashID, period)
	if err != nil {
		return nil, fmt.Errorf("get cash lines: %w", err)
	}
	cf := BuildCashFlow(period, opening, lines)
	return &cf, nil
}

// Sales generates the daily sales report for a period.
func (s *Service) Sales(ctx context.Context, period Period) (*SalesReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	lines, err := s.repo.SaleLines(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	r := BuildSalesReport(period, lines)
	return &r, nil
}

// Expenses generates the expense report for a period.
func (s *Service) Expenses(ctx context.Context, period Period) (*ExpenseReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	lines, err := s.repo.ExpenseLines(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("get expense lines: %w", err)
	}
	r := BuildExpenseReport(period, lines)
	return &r, nil
}

// Inventory generates the inventory valuation.
func (s *Service) Inventory(ctx context.Context) (*InventoryReport, error) {
	rows, err := s.repo.InventoryRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("get inventory rows: %w", err)
	}
	r := BuildInventoryReport(rows)
	return &r, nil
}

// Receivables lists outstanding credit sales up to asOf; nil means today.
func (s *Service) Receivables(ctx context.Context, asOf *time.Time) (*ReceivablesReport, error) {
	at := s.now()
	if asOf != nil {
		at = *asOf
	}
	rows, err := s.repo.ReceivableRows(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("get receivable rows: %w", err)
	}
	r := BuildReceivablesReport(rows)
	return &r, nil
}

// Payables lists supplier payables.
func (s *Service) Payables(ctx context.Context) (*PayablesReport, error) {
	rows, err := s.repo.PayableRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("get payable rows: %w", err)
	}
	r := BuildPayablesReport(rows)
	return &r, nil
}
