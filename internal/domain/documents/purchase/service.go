package purchase

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

// Service records purchases and keeps inventory, payables and the journal in step.
type Service struct {
	*posting.Workflow[*Purchase]
}

// NewService creates a new purchase service.
func NewService(repo Repository, suppliers SupplierReader, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*Purchase]{
		Name:         "purchase",
		NumberPrefix: NumberPrefix,
		Repo:         repo,
		Lines: posting.ItemLines[*Purchase, Item]{
			Repo:  repo,
			Get:   func(p *Purchase) []Item { return p.Items },
			Set:   func(p *Purchase, items []Item) { p.Items = items },
			Owner: func(it Item) int64 { return it.PurchaseID },
		},
		Engine: engine,
	})

	checkSupplier := func(ctx context.Context, p *Purchase) error {
		_, err := suppliers.GetByID(ctx, p.SupplierID)
		return err
	}
	wf.Hooks().On(domain.BeforeCreate, checkSupplier)
	wf.Hooks().On(domain.BeforeUpdate, checkSupplier)

	return &Service{Workflow: wf}
}
