package supplier_payment

import (
	"context"

	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/posting"
)

// SupplierReader looks suppliers up.
type SupplierReader interface {
	GetByID(ctx context.Context, id int64) (*supplier.Supplier, error)
}

// Service records supplier payments.
type Service struct {
	*posting.Workflow[*Payment]
}

// NewService creates a new supplier payment service.
func NewService(repo Repository, suppliers SupplierReader, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*Payment]{
		Name:   "supplier payment",
		Repo:   repo,
		Engine: engine,
	})

	checkSupplier := func(ctx context.Context, p *Payment) error {
		_, err := suppliers.GetByID(ctx, p.SupplierID)
		return err
	}
	wf.Hooks().On(domain.BeforeCreate, checkSupplier)
	wf.Hooks().On(domain.BeforeUpdate, checkSupplier)

	return &Service{Workflow: wf}
}
