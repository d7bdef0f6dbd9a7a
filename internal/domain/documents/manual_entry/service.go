package manual_entry

import (
	"context"
	"fmt"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
)

// AccountReader looks ledger accounts up.
type AccountReader interface {
	GetByID(ctx context.Context, id int64) (*accounts.Account, error)
}

// Service records manual journal entries.
type Service struct {
	*posting.Workflow[*ManualEntry]
	accounts AccountReader
}

// NewService creates a new manual entry service.
func NewService(repo Repository, accountReader AccountReader, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*ManualEntry]{
		Name:   "manual entry",
		Repo:   repo,
		Lines:  journalLines{recorder: engine.Recorder()},
		Engine: engine,
	})
	svc := &Service{Workflow: wf, accounts: accountReader}

	wf.Hooks().On(domain.BeforeCreate, svc.checkAccounts)
	wf.Hooks().On(domain.BeforeUpdate, svc.checkAccounts)

	return svc
}

func (s *Service) checkAccounts(ctx context.Context, m *ManualEntry) error {
	seen := make(map[int64]bool, len(m.Lines))
	for i, l := range m.Lines {
		if seen[l.AccountID] {
			continue
		}
		if _, err := s.accounts.GetByID(ctx, l.AccountID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewValidation("ledger account not found").
					WithDetail("field", fmt.Sprintf("lines[%d].ledgerAccountId", i)).
					WithDetail("ledgerAccountId", l.AccountID)
			}
			return err
		}
		seen[l.AccountID] = true
	}
	return nil
}

// EntryID resolves the manual entry behind a journal transaction. Journal
// transactions of other documents are edited through those documents.
func (s *Service) EntryID(ctx context.Context, transactionID int64) (int64, error) {
	t, err := s.Engine().Recorder().Get(ctx, transactionID)
	if err != nil {
		return 0, err
	}
	id, ok := ledger.ParseReference(t.ReferenceID, ledger.RefManualEntry)
	if !ok {
		return 0, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"only manual entries can be changed here; edit the source document instead").
			WithDetail("transaction_id", transactionID).
			WithDetail("reference_id", t.ReferenceID)
	}
	return id, nil
}

// journalLines reads manual entry lines back from the recorded transaction.
// The engine writes and removes them, so Save and Remove have nothing to do.
type journalLines struct {
	recorder *ledger.Recorder
}

func (j journalLines) Load(ctx context.Context, docs []*ManualEntry) error {
	for _, m := range docs {
		t, err := j.recorder.GetByReference(ctx, m.Reference())
		if err != nil {
			return err
		}
		m.Lines = make([]ledger.Line, len(t.Entries))
		for i, e := range t.Entries {
			m.Lines[i] = ledger.Line{
				AccountID:   e.LedgerAccountID,
				Type:        e.Type,
				Amount:      e.Amount,
				Description: e.Description,
			}
		}
	}
	return nil
}

func (journalLines) Save(context.Context, *ManualEntry) error { return nil }

func (journalLines) Remove(context.Context, int64) error { return nil }
