package expense

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/posting"
)

// AccountTypes resolves the class of a ledger account.
type AccountTypes interface {
	TypeOf(ctx context.Context, accountID int64) (accounts.AccountType, error)
}

// Service records expenses.
type Service struct {
	*posting.Workflow[*Expense]
	accounts AccountTypes
}

// NewService creates a new expense service.
func NewService(repo Repository, accountTypes AccountTypes, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*Expense]{
		Name:   "expense",
		Repo:   repo,
		Engine: engine,
	})
	svc := &Service{Workflow: wf, accounts: accountTypes}

	wf.Hooks().On(domain.BeforeCreate, svc.checkAccount)
	wf.Hooks().On(domain.BeforeUpdate, svc.checkAccount)

	return svc
}

func (s *Service) checkAccount(ctx context.Context, e *Expense) error {
	t, err := s.accounts.TypeOf(ctx, e.LedgerAccountID)
	if err != nil {
		return err
	}
	if t != accounts.TypeExpense {
		return apperror.NewValidation("ledger account is not an expense account").
			WithDetail("field", "ledgerAccountId").
			WithDetail("accountType", string(t))
	}
	return nil
}
