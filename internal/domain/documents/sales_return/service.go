package sales_return

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/posting"
)

// SaleReader looks sales up with their items.
type SaleReader interface {
	GetByID(ctx context.Context, id int64) (*sale.Sale, error)
}

// Service records sales returns.
type Service struct {
	*posting.Workflow[*SalesReturn]
	sales SaleReader
}

// NewService creates a new sales return service.
func NewService(repo Repository, sales SaleReader, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*SalesReturn]{
		Name:         "sales return",
		NumberPrefix: NumberPrefix,
		Repo:         repo,
		Lines: posting.ItemLines[*SalesReturn, Item]{
			Repo:  repo,
			Get:   func(r *SalesReturn) []Item { return r.Items },
			Set:   func(r *SalesReturn, items []Item) { r.Items = items },
			Owner: func(it Item) int64 { return it.SalesReturnID },
		},
		Engine: engine,
	})
	svc := &Service{Workflow: wf, sales: sales}

	wf.Hooks().On(domain.BeforeCreate, svc.checkSale)
	wf.Hooks().On(domain.BeforeUpdate, svc.checkSale)

	return svc
}

// checkSale verifies that a linked sale exists and sold every returned product.
func (s *Service) checkSale(ctx context.Context, r *SalesReturn) error {
	if r.SaleID == nil {
		return nil
	}
	sold, err := s.sales.GetByID(ctx, *r.SaleID)
	if err != nil {
		return err
	}

	products := make(map[int64]bool, len(sold.Items))
	for _, it := range sold.Items {
		products[it.ProductID] = true
	}
	for _, it := range r.Items {
		if !products[it.ProductID] {
			return apperror.NewValidation("product was not part of the sale").
				WithDetail("productId", it.ProductID).
				WithDetail("saleId", sold.ID)
		}
	}
	if r.CustomerName == "" {
		r.CustomerName = sold.CustomerName
	}
	return nil
}
