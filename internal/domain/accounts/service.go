package accounts

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/tx"
	"bookkeeper/internal/domain"
)

// GroupService manages account groups.
type GroupService struct {
	*domain.CatalogService[*Group]
	repo GroupRepository
}

// NewGroupService creates a new account group service.
func NewGroupService(repo GroupRepository, txManager tx.Manager) *GroupService {
	base := domain.NewCatalogService[*Group](repo, txManager, "account group")
	svc := &GroupService{CatalogService: base, repo: repo}

	base.Hooks().On(domain.BeforeUpdate, svc.checkTypeChange)
	base.Hooks().On(domain.BeforeDelete, svc.checkEmpty)

	return svc
}

// checkTypeChange forbids moving a populated group to another class; its
// accounts' codes carry the class prefix.
func (s *GroupService) checkTypeChange(ctx context.Context, g *Group) error {
	stored, err := s.repo.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	if stored.AccountType == g.AccountType {
		return nil
	}
	used, err := s.repo.HasAccounts(ctx, g.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "cannot change the account type of a group that has accounts").
			WithDetail("groupId", g.ID)
	}
	return nil
}

func (s *GroupService) checkEmpty(ctx context.Context, g *Group) error {
	used, err := s.repo.HasAccounts(ctx, g.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewInUse("account group", g.ID).WithDetail("reason", "has accounts")
	}
	return nil
}

// AccountService manages ledger accounts and their generated codes.
type AccountService struct {
	*domain.CatalogService[*Account]
	repo   AccountRepository
	groups GroupRepository
}

// NewAccountService creates a new ledger account service.
func NewAccountService(repo AccountRepository, groups GroupRepository, txManager tx.Manager) *AccountService {
	base := domain.NewCatalogService[*Account](repo, txManager, "ledger account")
	svc := &AccountService{CatalogService: base, repo: repo, groups: groups}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.prepareForUpdate)
	base.Hooks().On(domain.BeforeDelete, svc.checkUnused)

	return svc
}

func (s *AccountService) group(ctx context.Context, id int64) (*Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewValidation("account group not found").WithDetail("groupId", id)
		}
		return nil, err
	}
	return g, nil
}

func (s *AccountService) nextCode(ctx context.Context, t AccountType) (string, error) {
	codes, err := s.repo.CodesByType(ctx, t)
	if err != nil {
		return "", err
	}
	return NextCode(t, codes), nil
}

func (s *AccountService) prepareForCreate(ctx context.Context, a *Account) error {
	g, err := s.group(ctx, a.GroupID)
	if err != nil {
		return err
	}
	if err := s.checkRoleFree(ctx, a); err != nil {
		return err
	}
	a.Code, err = s.nextCode(ctx, g.AccountType)
	return err
}

// prepareForUpdate keeps the stored code unless the account moves to a group
// of another class, which renumbers it.
func (s *AccountService) prepareForUpdate(ctx context.Context, a *Account) error {
	stored, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	if err := s.checkRoleFree(ctx, a); err != nil {
		return err
	}
	if stored.Role != nil && (a.Role == nil || *a.Role != *stored.Role) {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "the posting role of an account cannot be removed or changed").
			WithDetail("role", *stored.Role)
	}

	a.Code = stored.Code
	a.CreatedAt = stored.CreatedAt
	if stored.GroupID == a.GroupID {
		return nil
	}
	oldGroup, err := s.group(ctx, stored.GroupID)
	if err != nil {
		return err
	}
	newGroup, err := s.group(ctx, a.GroupID)
	if err != nil {
		return err
	}
	if oldGroup.AccountType != newGroup.AccountType {
		a.Code, err = s.nextCode(ctx, newGroup.AccountType)
	}
	return err
}

func (s *AccountService) checkRoleFree(ctx context.Context, a *Account) error {
	if a.Role == nil {
		return nil
	}
	tagged, err := s.repo.ListWithRoles(ctx)
	if err != nil {
		return err
	}
	for _, other := range tagged {
		if other.ID != a.ID && other.Role != nil && *other.Role == *a.Role {
			return apperror.NewDuplicate("ledger account", "role", string(*a.Role))
		}
	}
	return nil
}

func (s *AccountService) checkUnused(ctx context.Context, a *Account) error {
	if a.Role != nil {
		return apperror.NewInUse("ledger account", a.ID).WithDetail("reason", "bound to posting role "+string(*a.Role))
	}
	used, err := s.repo.HasEntries(ctx, a.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewInUse("ledger account", a.ID).WithDetail("reason", "has journal entries")
	}
	return nil
}

// TypeOf returns the class of the account's group.
func (s *AccountService) TypeOf(ctx context.Context, accountID int64) (AccountType, error) {
	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	g, err := s.groups.GetByID(ctx, a.GroupID)
	if err != nil {
		return "", err
	}
	return g.AccountType, nil
}
