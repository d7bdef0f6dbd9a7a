package sale

import (
	"context"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/posting"
)

// Service records sales and collections of their receivables.
type Service struct {
	*posting.Workflow[*Sale]
	repo        Repository
	collections *posting.Workflow[*Collection]
}

// NewService creates a new sale service.
func NewService(repo Repository, collections CollectionRepository, engine *posting.Engine) *Service {
	wf := posting.NewWorkflow(posting.WorkflowConfig[*Sale]{
		Name:         "sale",
		NumberPrefix: NumberPrefix,
		Repo:         repo,
		Lines: posting.ItemLines[*Sale, Item]{
			Repo:  repo,
			Get:   func(s *Sale) []Item { return s.Items },
			Set:   func(s *Sale, items []Item) { s.Items = items },
			Owner: func(it Item) int64 { return it.SaleID },
		},
		Engine: engine,
	})
	svc := &Service{
		Workflow: wf,
		repo:     repo,
		collections: posting.NewWorkflow(posting.WorkflowConfig[*Collection]{
			Name:   "receivable collection",
			Repo:   collections,
			Engine: engine,
		}),
	}

	wf.Hooks().On(domain.BeforeCreate, setPayable)
	wf.Hooks().On(domain.BeforeUpdate, svc.checkUnsettled)
	wf.Hooks().On(domain.BeforeUpdate, setPayable)
	wf.Hooks().On(domain.BeforeDelete, svc.checkUnsettled)

	svc.collections.Hooks().On(domain.BeforeCreate, svc.checkCreditSale)

	return svc
}

func setPayable(ctx context.Context, s *Sale) error {
	s.PayableAmount = types.Zero()
	if s.PaymentMethod == posting.Credit {
		s.PayableAmount = s.Total()
	}
	return nil
}

// checkUnsettled refuses to rewrite a sale that collections or returns already
// settled against.
func (s *Service) checkUnsettled(ctx context.Context, sale *Sale) error {
	used, err := s.repo.HasDependents(ctx, sale.ID)
	if err != nil {
		return err
	}
	if used {
		return apperror.NewInUse("sale", sale.ID).WithDetail("reason", "has collections or returns")
	}
	return nil
}

func (s *Service) checkCreditSale(ctx context.Context, c *Collection) error {
	sale, err := s.repo.GetByID(ctx, c.SaleID)
	if err != nil {
		return err
	}
	if sale.PaymentMethod != posting.Credit {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "only credit sales have a receivable").
			WithDetail("sale_id", sale.ID)
	}
	return nil
}

// Outstanding lists credit sales that still have a receivable.
func (s *Service) Outstanding(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	res, err := s.repo.ListOutstanding(ctx, filter.Normalize())
	if err != nil {
		return res, err
	}
	if len(res.Items) > 0 {
		lines := posting.ItemLines[*Sale, Item]{
			Repo:  s.repo,
			Set:   func(s *Sale, items []Item) { s.Items = items },
			Owner: func(it Item) int64 { return it.SaleID },
		}
		if err := lines.Load(ctx, res.Items); err != nil {
			return res, err
		}
	}
	for _, sale := range res.Items {
		sale.Derive()
	}
	return res, nil
}

// Collect records cash received against a credit sale and lowers its payable.
func (s *Service) Collect(ctx context.Context, c *Collection) error {
	return s.collections.Create(ctx, c)
}

// DeleteCollection reverses a collection.
func (s *Service) DeleteCollection(ctx context.Context, id int64) error {
	return s.collections.Delete(ctx, id)
}

// GetCollection returns one collection.
func (s *Service) GetCollection(ctx context.Context, id int64) (*Collection, error) {
	return s.collections.GetByID(ctx, id)
}

// ListCollections lists collections; CounterpartyID filters by sale.
func (s *Service) ListCollections(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Collection], error) {
	return s.collections.List(ctx, filter)
}
