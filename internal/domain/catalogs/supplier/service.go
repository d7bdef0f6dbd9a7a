package supplier

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/tx"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
)

// Service provides business logic for the supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo Repository
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService[*Supplier](repo, txManager, "supplier")
	svc := &Service{CatalogService: base, repo: repo}

	base.Hooks().On(domain.BeforeCreate, func(ctx context.Context, s *Supplier) error {
		s.PayableAmount = types.Zero()
		return nil
	})
	base.Hooks().On(domain.BeforeUpdate, svc.keepPayable)
	base.Hooks().On(domain.BeforeDelete, svc.checkUnused)

	return svc
}

// keepPayable reloads the stored balance so the response reflects it.
func (s *Service) keepPayable(ctx context.Context, sup *Supplier) error {
	stored, err := s.repo.GetByID(ctx, sup.ID)
	if err != nil {
		return err
	}
	sup.PayableAmount = stored.PayableAmount
	sup.CreatedAt = stored.CreatedAt
	return nil
}

func (s *Service) checkUnused(ctx context.Context, sup *Supplier) error {
	used, err := s.repo.HasDocuments(ctx, sup.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewInUse("supplier", sup.ID).WithDetail("reason", "has documents")
	}
	return nil
}

// AdjustPayable moves the supplier's payable by delta. Posting workflows call it
// inside their transaction.
func (s *Service) AdjustPayable(ctx context.Context, id int64, delta types.Money) (types.Money, error) {
	balance, err := s.repo.AdjustPayable(ctx, id, delta)
	if err != nil {
		if apperror.IsNotFound(err) {
			return types.Zero(), apperror.NewNotFound("supplier", id)
		}
		return types.Zero(), err
	}
	return balance, nil
}
