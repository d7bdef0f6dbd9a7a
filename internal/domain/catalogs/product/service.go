package product

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/tx"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/catalogs/category"
)

// CategoryReader resolves category references.
type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*category.Category, error)
}

// Service provides business logic for the product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo       Repository
	categories CategoryReader
}

// NewService creates a new product service.
func NewService(repo Repository, categories CategoryReader, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Product](repo, txManager, "product")
	svc := &Service{CatalogService: base, repo: repo, categories: categories}

	base.Hooks().On(domain.BeforeCreate, svc.checkCategories)
	base.Hooks().On(domain.BeforeUpdate, svc.checkCategories)
	base.Hooks().On(domain.BeforeDelete, svc.checkUnused)

	return svc
}

func (s *Service) checkCategories(ctx context.Context, p *Product) error {
	if p.CategoryID == nil {
		return nil
	}
	cat, err := s.categories.GetByID(ctx, *p.CategoryID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("category not found").WithDetail("categoryId", *p.CategoryID)
		}
		return err
	}
	if cat.IsSubcategory() {
		return apperror.NewValidation("categoryId must reference a top-level category").WithDetail("categoryId", cat.ID)
	}
	if p.SubcategoryID == nil {
		return nil
	}
	sub, err := s.categories.GetByID(ctx, *p.SubcategoryID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("subcategory not found").WithDetail("subcategoryId", *p.SubcategoryID)
		}
		return err
	}
	if sub.ParentID == nil || *sub.ParentID != cat.ID {
		return apperror.NewValidation("subcategory does not belong to category").
			WithDetail("categoryId", cat.ID).
			WithDetail("subcategoryId", sub.ID)
	}
	return nil
}

func (s *Service) checkUnused(ctx context.Context, p *Product) error {
	used, err := s.repo.HasMovements(ctx, p.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewInUse("product", p.ID).WithDetail("reason", "has document lines")
	}
	return nil
}
