package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/posting"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
	*ItemStore[sale.Item]
}

var _ sale.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	base := NewBaseDocumentRepo(txm, "sales", "sale",
		postgres.ExtractDBColumns[sale.Sale](),
		func() *sale.Sale { return &sale.Sale{} },
	)
	base.searchCols = []string{"number", "customer_name"}
	return &SaleRepo{
		BaseDocumentRepo: base,
		ItemStore: NewItemStore(txm, "sale_items", "sale_id",
			func(it *sale.Item, id int64) { it.ID = id },
			func(it *sale.Item, owner int64) { it.SaleID = owner },
		),
	}
}

// AdjustReceivable implements sale.Repository; the UPDATE takes the row lock.
func (r *SaleRepo) AdjustReceivable(ctx context.Context, saleID int64, delta types.Money) (types.Money, error) {
	var balance types.Money
	err := r.querier(ctx).QueryRow(ctx, `
		UPDATE sales SET payable_amount = payable_amount + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING payable_amount
	`, delta, saleID).Scan(&balance)
	if err != nil {
		return balance, postgres.MapError(err, "adjust receivable", "sale", saleID)
	}
	return balance, nil
}

func (r *SaleRepo) HasDependents(ctx context.Context, saleID int64) (bool, error) {
	for _, table := range []string{"receivable_collections", "sales_returns"} {
		found, err := existsIn(ctx, r.querier(ctx), table, "sale_id", saleID)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

// ListOutstanding implements sale.Repository.
func (r *SaleRepo) ListOutstanding(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	q := r.applyFilter(r.baseSelect(), filter).
		Where(squirrel.Eq{"payment_method": posting.Credit}).
		Where(squirrel.Gt{"payable_amount": 0})
	return r.list(ctx, q, filter, "date ASC, id ASC")
}

// CollectionRepo implements sale.CollectionRepository.
type CollectionRepo struct {
	*BaseDocumentRepo[*sale.Collection]
}

var _ sale.CollectionRepository = (*CollectionRepo)(nil)

// NewCollectionRepo creates a new receivable collection repository.
func NewCollectionRepo(txm *postgres.TxManager) *CollectionRepo {
	base := NewBaseDocumentRepo(txm, "receivable_collections", "receivable collection",
		postgres.ExtractDBColumns[sale.Collection](),
		func() *sale.Collection { return &sale.Collection{} },
	)
	base.counterpartyCol = "sale_id"
	base.searchCols = []string{"description"}
	return &CollectionRepo{BaseDocumentRepo: base}
}
