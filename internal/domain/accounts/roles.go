package accounts

import (
	"context"
	"fmt"
	"strings"

	"bookkeeper/internal/core/apperror"
)

// Role names the ledger account a posting workflow debits or credits.
type Role string

const (
	RoleCash               Role = "cash"
	RoleAccountsReceivable Role = "accounts_receivable"
	RoleInventory          Role = "inventory"
	RoleAccountsPayable    Role = "accounts_payable"
	RoleSalesRevenue       Role = "sales_revenue"
	RoleSalesReturns       Role = "sales_returns"
	RoleOwnerEquity        Role = "owner_equity"
)

// PostingRoles must all resolve before the posting workflows can run.
var PostingRoles = []Role{
	RoleCash,
	RoleAccountsReceivable,
	RoleInventory,
	RoleAccountsPayable,
	RoleSalesRevenue,
	RoleSalesReturns,
}

var allRoles = append(append([]Role{}, PostingRoles...), RoleOwnerEquity)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Roles maps each role to a ledger account ID. It is resolved once at startup.
type Roles map[Role]int64

// Account returns the ledger account bound to role.
func (r Roles) Account(role Role) (int64, error) {
	id, ok := r[role]
	if !ok || id <= 0 {
		return 0, apperror.NewInternal(fmt.Errorf("account role %q is not configured", role))
	}
	return id, nil
}

// Has reports whether accountID is bound to any role.
func (r Roles) Has(accountID int64) bool {
	for _, id := range r {
		if id == accountID {
			return true
		}
	}
	return false
}

// RoleSource lists the accounts tagged with a role.
type RoleSource interface {
	ListWithRoles(ctx context.Context) ([]*Account, error)
}

// ResolveRoles builds the role map from tagged accounts, then applies overrides
// (typically from configuration). It fails when a posting role stays unresolved
// or when two accounts claim the same role.
func ResolveRoles(ctx context.Context, src RoleSource, overrides map[Role]int64) (Roles, error) {
	tagged, err := src.ListWithRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list role accounts: %w", err)
	}

	roles := make(Roles, len(allRoles))
	for _, acc := range tagged {
		if acc.Role == nil {
			continue
		}
		if prev, dup := roles[*acc.Role]; dup && prev != acc.ID {
			return nil, fmt.Errorf("role %q is bound to accounts %d and %d", *acc.Role, prev, acc.ID)
		}
		roles[*acc.Role] = acc.ID
	}
	for role, id := range overrides {
		if !role.Valid() {
			return nil, fmt.Errorf("unknown account role %q in overrides", role)
		}
		roles[role] = id
	}

	var missing []string
	for _, role := range PostingRoles {
		if roles[role] <= 0 {
			missing = append(missing, string(role))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unresolved account roles: %s", strings.Join(missing, ", "))
	}
	return roles, nil
}
