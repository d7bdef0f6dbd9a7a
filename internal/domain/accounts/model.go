// Package accounts provides the chart of accounts: account groups typed by
// accounting class and the ledger accounts inside them.
package accounts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/entity"
)

// AccountType is the accounting class of a group.
type AccountType string

const (
	TypeAsset     AccountType = "Asset"
	TypeLiability AccountType = "Liability"
	TypeEquity    AccountType = "Equity"
	TypeRevenue   AccountType = "Revenue"
	TypeExpense   AccountType = "Expense"
)

// AccountTypes lists the classes in chart order.
var AccountTypes = []AccountType{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense}

// Code returns the numeric class code, also used as the ledger code prefix.
// Unknown types return 0.
func (t AccountType) Code() int {
	for i, at := range AccountTypes {
		if at == t {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether t is a known class.
func (t AccountType) Valid() bool {
	return t.Code() != 0
}

// DebitNormal reports whether balances of this class grow with debits.
func (t AccountType) DebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// ParseAccountType accepts a class name in any case.
func ParseAccountType(s string) (AccountType, error) {
	for _, at := range AccountTypes {
		if strings.EqualFold(string(at), strings.TrimSpace(s)) {
			return at, nil
		}
	}
	return "", apperror.NewValidation("unknown account type").WithDetail("accountType", s)
}

// Group is an account group (e.g. "Current Assets") of a single class.
type Group struct {
	entity.BaseEntity

	Name        string      `db:"name" json:"name"`
	AccountType AccountType `db:"account_type" json:"accountType"`
}

// Validate implements entity.Validatable.
func (g *Group) Validate(ctx context.Context) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !g.AccountType.Valid() {
		return apperror.NewValidation("unknown account type").WithDetail("accountType", g.AccountType)
	}
	return nil
}

// Account is a ledger account journal entries post to.
type Account struct {
	entity.BaseEntity

	GroupID int64  `db:"group_id" json:"groupId"`
	Code    string `db:"code" json:"code"`
	Name    string `db:"name" json:"name"`

	// Role binds the account to a posting role (cash, inventory, ...)
	Role *Role `db:"role" json:"role,omitempty"`
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if a.GroupID <= 0 {
		return apperror.NewValidation("groupId is required").WithDetail("field", "groupId")
	}
	if a.Role != nil && !a.Role.Valid() {
		return apperror.NewValidation("unknown account role").WithDetail("role", *a.Role)
	}
	return nil
}

// NextCode returns the next ledger code of class t given the codes already in use,
// e.g. "1-003" after "1-001" and "1-002".
func NextCode(t AccountType, existing []string) string {
	prefix := fmt.Sprintf("%d-", t.Code())
	var max int64
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix), 10, 64)
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1)
}
