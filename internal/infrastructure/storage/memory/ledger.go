package memory

import (
	"context"
	"sort"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/ledger"
)

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	s *Store
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// Ledger returns the transaction repository.
func (s *Store) Ledger() *LedgerRepo {
	return &LedgerRepo{s: s}
}

func (r *LedgerRepo) CreateTransaction(ctx context.Context, t *ledger.Transaction) error {
	return r.s.do(ctx, func(st *state) error {
		taken := st.transactions.exists(func(x *ledger.Transaction) bool { return x.ReferenceID == t.ReferenceID })
		if taken {
			return apperror.NewDuplicate("transaction", "reference_id", t.ReferenceID)
		}
		entries := t.Entries
		t.Entries = nil
		st.transactions.insert(t)
		t.Entries = entries
		return nil
	})
}

func (r *LedgerRepo) CreateEntries(ctx context.Context, entries []ledger.JournalEntry) error {
	return r.s.do(ctx, func(st *state) error {
		for i := range entries {
			if _, ok := st.transactions.get(entries[i].TransactionID); !ok {
				return notFound("transaction", entries[i].TransactionID)
			}
			if _, ok := st.accounts.get(entries[i].LedgerAccountID); !ok {
				return apperror.NewBusinessRule(apperror.CodeBusinessRule, "ledger account does not exist").
					WithDetail("ledger_account_id", entries[i].LedgerAccountID)
			}
			st.entries.add(entries[i].TransactionID, &entries[i])
		}
		return nil
	})
}

func (r *LedgerRepo) GetByID(ctx context.Context, id int64) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := r.s.do(ctx, func(st *state) error {
		t, ok := st.transactions.get(id)
		if !ok {
			return notFound("transaction", id)
		}
		out = t
		return nil
	})
	return out, err
}

func (r *LedgerRepo) GetByReference(ctx context.Context, referenceID string) (*ledger.Transaction, error) {
	var out *ledger.Transaction
	err := r.s.do(ctx, func(st *state) error {
		found := st.transactions.all(func(t *ledger.Transaction) bool { return t.ReferenceID == referenceID })
		if len(found) == 0 {
			return notFound("transaction", referenceID)
		}
		out = found[0]
		return nil
	})
	return out, err
}

func (r *LedgerRepo) ListEntries(ctx context.Context, transactionIDs []int64) ([]ledger.JournalEntry, error) {
	var out []ledger.JournalEntry
	err := r.s.do(ctx, func(st *state) error {
		out = st.entries.list(transactionIDs)
		return nil
	})
	return out, err
}

func (r *LedgerRepo) List(ctx context.Context, f ledger.Filter) (domain.ListResult[*ledger.Transaction], error) {
	var res domain.ListResult[*ledger.Transaction]
	err := r.s.do(ctx, func(st *state) error {
		period := domain.ListFilter{DateFrom: f.DateFrom, DateTo: f.DateTo}
		items := st.transactions.all(func(t *ledger.Transaction) bool {
			if !period.InRange(t.Date) {
				return false
			}
			if f.Type != nil && t.Type != *f.Type {
				return false
			}
			if f.ReferenceID != "" && t.ReferenceID != f.ReferenceID {
				return false
			}
			if f.AccountID != nil {
				return st.entries.exists(func(e ledger.JournalEntry) bool {
					return e.TransactionID == t.ID && e.LedgerAccountID == *f.AccountID
				})
			}
			return true
		})
		sort.SliceStable(items, func(i, j int) bool {
			if !items[i].Date.Equal(items[j].Date) {
				return items[i].Date.After(items[j].Date)
			}
			return items[i].ID > items[j].ID
		})
		res = domain.Page(items, domain.ListFilter{Limit: f.Limit, Offset: f.Offset})
		return nil
	})
	return res, err
}

func (r *LedgerRepo) DeleteEntries(ctx context.Context, transactionID int64) error {
	return r.s.do(ctx, func(st *state) error {
		st.entries.remove(transactionID)
		return nil
	})
}

func (r *LedgerRepo) DeleteTransaction(ctx context.Context, transactionID int64) error {
	return r.s.do(ctx, func(st *state) error {
		if !st.transactions.remove(transactionID) {
			return notFound("transaction", transactionID)
		}
		return nil
	})
}
