package category

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/tx"
	"bookkeeper/internal/domain"
)

// Service provides business logic for the category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Category](repo, txManager, "category")
	svc := &Service{CatalogService: base, repo: repo}

	base.Hooks().On(domain.BeforeCreate, svc.checkParent)
	base.Hooks().On(domain.BeforeUpdate, svc.checkParent)
	base.Hooks().On(domain.BeforeDelete, svc.checkUnused)

	return svc
}

// checkParent keeps the tree two levels deep.
func (s *Service) checkParent(ctx context.Context, c *Category) error {
	if c.ParentID == nil {
		return nil
	}
	parent, err := s.repo.GetByID(ctx, *c.ParentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("parent category not found").WithDetail("parentId", *c.ParentID)
		}
		return err
	}
	if parent.IsSubcategory() {
		return apperror.NewValidation("subcategories cannot be nested").WithDetail("parentId", *c.ParentID)
	}
	if c.ID != 0 {
		hasChildren, err := s.repo.HasChildren(ctx, c.ID)
		if err != nil {
			return err
		}
		if hasChildren {
			return apperror.NewValidation("a category with subcategories cannot become a subcategory")
		}
	}
	return nil
}

func (s *Service) checkUnused(ctx context.Context, c *Category) error {
	hasChildren, err := s.repo.HasChildren(ctx, c.ID)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperror.NewInUse("category", c.ID).WithDetail("reason", "has subcategories")
	}
	hasProducts, err := s.repo.HasProducts(ctx, c.ID)
	if err != nil {
		return err
	}
	if hasProducts {
		return apperror.NewInUse("category", c.ID).WithDetail("reason", "has products")
	}
	return nil
}
