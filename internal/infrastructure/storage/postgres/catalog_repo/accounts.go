package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

const (
	groupTable   = "account_groups"
	accountTable = "ledger_accounts"
)

// GroupRepo implements accounts.GroupRepository.
type GroupRepo struct {
	*BaseCatalogRepo[*accounts.Group]
}

var _ accounts.GroupRepository = (*GroupRepo)(nil)

// NewGroupRepo creates a new account group repository.
func NewGroupRepo(txm *postgres.TxManager) *GroupRepo {
	base := NewBaseCatalogRepo(txm, groupTable, "account group",
		postgres.ExtractDBColumns[accounts.Group](),
		func() *accounts.Group { return &accounts.Group{} },
	)
	base.orderBy = "id ASC"
	return &GroupRepo{BaseCatalogRepo: base}
}

func (r *GroupRepo) HasAccounts(ctx context.Context, groupID int64) (bool, error) {
	return r.Exists(ctx, r.Builder().Select("1").From(accountTable).Where(squirrel.Eq{"group_id": groupID}))
}

// AccountRepo implements accounts.AccountRepository.
type AccountRepo struct {
	*BaseCatalogRepo[*accounts.Account]
}

var _ accounts.AccountRepository = (*AccountRepo)(nil)

// NewAccountRepo creates a new ledger account repository.
func NewAccountRepo(txm *postgres.TxManager) *AccountRepo {
	base := NewBaseCatalogRepo(txm, accountTable, "ledger account",
		postgres.ExtractDBColumns[accounts.Account](),
		func() *accounts.Account { return &accounts.Account{} },
	)
	base.parentCol = "group_id"
	base.orderBy = "code ASC"
	return &AccountRepo{BaseCatalogRepo: base}
}

func (r *AccountRepo) ListWithRoles(ctx context.Context) ([]*accounts.Account, error) {
	return r.FindAll(ctx, r.baseSelect().Where(squirrel.NotEq{"role": nil}).OrderBy("id ASC"))
}

func (r *AccountRepo) CodesByType(ctx context.Context, t accounts.AccountType) ([]string, error) {
	sql, args, err := r.Builder().
		Select("a.code").
		From(accountTable + " a").
		Join(groupTable + " g ON g.id = a.group_id").
		Where(squirrel.Eq{"g.account_type": t}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "list codes", "ledger account", t)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (r *AccountRepo) HasEntries(ctx context.Context, accountID int64) (bool, error) {
	return r.Exists(ctx, r.Builder().Select("1").From("journal_entries").Where(squirrel.Eq{"ledger_account_id": accountID}))
}
