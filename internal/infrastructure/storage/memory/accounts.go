package memory

import (
	"context"
	"strings"

	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/ledger"
)

// GroupRepo implements accounts.GroupRepository.
type GroupRepo struct {
	crud[accounts.Group, *accounts.Group]
}

var _ accounts.GroupRepository = (*GroupRepo)(nil)

// Groups returns the account group repository.
func (s *Store) Groups() *GroupRepo {
	return &GroupRepo{crud[accounts.Group, *accounts.Group]{
		s:      s,
		entity: "account group",
		table:  func(st *state) *table[accounts.Group, *accounts.Group] { return st.groups },
		match: func(g *accounts.Group, f domain.ListFilter) bool {
			return containsFold(g.Name, f.Search)
		},
	}}
}

func (r *GroupRepo) HasAccounts(ctx context.Context, groupID int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.accounts.exists(func(a *accounts.Account) bool { return a.GroupID == groupID })
		return nil
	})
	return found, err
}

// AccountRepo implements accounts.AccountRepository.
type AccountRepo struct {
	crud[accounts.Account, *accounts.Account]
}

var _ accounts.AccountRepository = (*AccountRepo)(nil)

// Accounts returns the ledger account repository.
func (s *Store) Accounts() *AccountRepo {
	return &AccountRepo{crud[accounts.Account, *accounts.Account]{
		s:      s,
		entity: "ledger account",
		table:  func(st *state) *table[accounts.Account, *accounts.Account] { return st.accounts },
		match: func(a *accounts.Account, f domain.ListFilter) bool {
			if f.ParentID != nil && a.GroupID != *f.ParentID {
				return false
			}
			return containsFold(a.Name, f.Search) || strings.HasPrefix(a.Code, strings.TrimSpace(f.Search))
		},
	}}
}

func (r *AccountRepo) ListWithRoles(ctx context.Context) ([]*accounts.Account, error) {
	var out []*accounts.Account
	err := r.s.do(ctx, func(st *state) error {
		out = st.accounts.all(func(a *accounts.Account) bool { return a.Role != nil })
		return nil
	})
	return out, err
}

func (r *AccountRepo) CodesByType(ctx context.Context, t accounts.AccountType) ([]string, error) {
	var codes []string
	err := r.s.do(ctx, func(st *state) error {
		for _, a := range st.accounts.all(nil) {
			g, ok := st.groups.get(a.GroupID)
			if ok && g.AccountType == t {
				codes = append(codes, a.Code)
			}
		}
		return nil
	})
	return codes, err
}

func (r *AccountRepo) HasEntries(ctx context.Context, accountID int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.entries.exists(func(e ledger.JournalEntry) bool { return e.LedgerAccountID == accountID })
		return nil
	})
	return found, err
}
