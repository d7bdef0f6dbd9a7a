package accounts

import (
	"context"

	"bookkeeper/internal/domain"
)

// GroupRepository stores account groups.
type GroupRepository interface {
	domain.CatalogRepository[*Group]

	HasAccounts(ctx context.Context, groupID int64) (bool, error)
}

// AccountRepository stores ledger accounts.
// List honours ListFilter.ParentID as the group filter.
type AccountRepository interface {
	domain.CatalogRepository[*Account]
	RoleSource

	// CodesByType returns the codes of all accounts whose group has class t.
	CodesByType(ctx context.Context, t AccountType) ([]string, error)

	// HasEntries reports whether journal entries post to the account.
	HasEntries(ctx context.Context, accountID int64) (bool, error)
}
