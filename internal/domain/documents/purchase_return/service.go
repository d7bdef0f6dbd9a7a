package purchase_return

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/posting"
)

// SupplierReader looks suppliers up.
type SupplierReader interface {
	GetByID(ctx context.Context, id int64) (*supplier.Supplier, error)
}

// PurchaseReader looks purchases up.
type PurchaseReader interface {
	GetByID(ctx context.Context, id int64) (*purchase.Purchase, error)
}

// Service records purchase returns.
type Service struct {
	*posting.Workflow[*PurchaseReturn]
	suppliers SupplierReader
	purchases PurchaseReader
}

// NewService creates a new purchase return service.
func NewService(repo Repository, suppliers SupplierReader, purchases PurchaseReader, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*PurchaseReturn]{
		Name:         "purchase return",
		NumberPrefix: NumberPrefix,
		Repo:         repo,
		Lines: posting.ItemLines[*PurchaseReturn, Item]{
			Repo:  repo,
			Get:   func(r *PurchaseReturn) []Item { return r.Items },
			Set:   func(r *PurchaseReturn, items []Item) { r.Items = items },
			Owner: func(it Item) int64 { return it.PurchaseReturnID },
		},
		Engine: engine,
	})
	svc := &Service{Workflow: wf, suppliers: suppliers, purchases: purchases}

	wf.Hooks().On(domain.BeforeCreate, svc.checkRefs)
	wf.Hooks().On(domain.BeforeUpdate, svc.checkRefs)

	return svc
}

func (s *Service) checkRefs(ctx context.Context, r *PurchaseReturn) error {
	if _, err := s.suppliers.GetByID(ctx, r.SupplierID); err != nil {
		return err
	}
	if r.PurchaseID == nil {
		return nil
	}
	p, err := s.purchases.GetByID(ctx, *r.PurchaseID)
	if err != nil {
		return err
	}
	if p.SupplierID != r.SupplierID {
		return apperror.NewValidation("purchase belongs to another supplier").
			WithDetail("field", "purchaseId").
			WithDetail("purchaseSupplierId", p.SupplierID)
	}
	return nil
}
