package memory

import (
	"context"
	"time"

	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/manual_entry"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/domain/posting"
)

// docs adds item storage to a document header table.
type docs[T any, P row[T], I any] struct {
	crud[T, P]
	items func(st *state) *lines[I]
}

func (d docs[T, P, I]) ListItems(ctx context.Context, docIDs []int64) ([]I, error) {
	var out []I
	err := d.s.do(ctx, func(st *state) error {
		out = d.items(st).list(docIDs)
		return nil
	})
	return out, err
}

func (d docs[T, P, I]) ReplaceItems(ctx context.Context, docID int64, items []I) error {
	return d.s.do(ctx, func(st *state) error {
		d.items(st).replace(docID, items)
		return nil
	})
}

func (d docs[T, P, I]) DeleteItems(ctx context.Context, docID int64) error {
	return d.s.do(ctx, func(st *state) error {
		d.items(st).remove(docID)
		return nil
	})
}

func counterparty(id int64, f domain.ListFilter) bool {
	return f.CounterpartyID == nil || *f.CounterpartyID == id
}

func optCounterparty(id *int64, f domain.ListFilter) bool {
	return f.CounterpartyID == nil || (id != nil && *id == *f.CounterpartyID)
}

func docDate[P interface{ Header() *entity.Document }](p P) time.Time {
	return p.Header().Date
}

// Purchases returns the purchase repository.
func (s *Store) Purchases() purchase.Repository {
	return docs[purchase.Purchase, *purchase.Purchase, purchase.Item]{
		crud: crud[purchase.Purchase, *purchase.Purchase]{
			s:      s,
			entity: "purchase",
			table:  func(st *state) *table[purchase.Purchase, *purchase.Purchase] { return st.purchases },
			date:   docDate[*purchase.Purchase],
			match: func(p *purchase.Purchase, f domain.ListFilter) bool {
				return counterparty(p.SupplierID, f) && (containsFold(p.Number, f.Search) || containsFold(p.Description, f.Search))
			},
		},
		items: func(st *state) *lines[purchase.Item] { return st.purchaseItems },
	}
}

// PurchaseReturns returns the purchase return repository.
func (s *Store) PurchaseReturns() purchase_return.Repository {
	return docs[purchase_return.PurchaseReturn, *purchase_return.PurchaseReturn, purchase_return.Item]{
		crud: crud[purchase_return.PurchaseReturn, *purchase_return.PurchaseReturn]{
			s:      s,
			entity: "purchase return",
			table: func(st *state) *table[purchase_return.PurchaseReturn, *purchase_return.PurchaseReturn] {
				return st.purchaseReturns
			},
			date: docDate[*purchase_return.PurchaseReturn],
			match: func(r *purchase_return.PurchaseReturn, f domain.ListFilter) bool {
				return counterparty(r.SupplierID, f) && (containsFold(r.Number, f.Search) || containsFold(r.Description, f.Search))
			},
		},
		items: func(st *state) *lines[purchase_return.Item] { return st.purchaseReturnItems },
	}
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	docs[sale.Sale, *sale.Sale, sale.Item]
}

var _ sale.Repository = (*SaleRepo)(nil)

// Sales returns the sale repository.
func (s *Store) Sales() *SaleRepo {
	return &SaleRepo{docs[sale.Sale, *sale.Sale, sale.Item]{
		crud: crud[sale.Sale, *sale.Sale]{
			s:      s,
			entity: "sale",
			table:  func(st *state) *table[sale.Sale, *sale.Sale] { return st.sales },
			date:   docDate[*sale.Sale],
			match: func(sl *sale.Sale, f domain.ListFilter) bool {
				return containsFold(sl.Number, f.Search) || containsFold(sl.CustomerName, f.Search)
			},
		},
		items: func(st *state) *lines[sale.Item] { return st.saleItems },
	}}
}

func (r *SaleRepo) AdjustReceivable(ctx context.Context, saleID int64, delta types.Money) (types.Money, error) {
	var balance types.Money
	err := r.s.do(ctx, func(st *state) error {
		sl, ok := st.sales.get(saleID)
		if !ok {
			return notFound("sale", saleID)
		}
		sl.PayableAmount = sl.PayableAmount.Add(delta)
		st.sales.update(sl)
		balance = sl.PayableAmount
		return nil
	})
	return balance, err
}

func (r *SaleRepo) HasDependents(ctx context.Context, saleID int64) (bool, error) {
	var found bool
	err := r.s.do(ctx, func(st *state) error {
		found = st.collections.exists(func(c *sale.Collection) bool { return c.SaleID == saleID }) ||
			st.salesReturns.exists(func(sr *sales_return.SalesReturn) bool {
				return sr.SaleID != nil && *sr.SaleID == saleID
			})
		return nil
	})
	return found, err
}

func (r *SaleRepo) ListOutstanding(ctx context.Context, f domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	var res domain.ListResult[*sale.Sale]
	err := r.s.do(ctx, func(st *state) error {
		items := st.sales.all(func(sl *sale.Sale) bool {
			return sl.PaymentMethod == posting.Credit && sl.PayableAmount.IsPositive() &&
				f.InRange(sl.Date) && containsFold(sl.CustomerName, f.Search)
		})
		res = domain.Page(items, f)
		return nil
	})
	return res, err
}

// Collections returns the receivable collection repository.
func (s *Store) Collections() sale.CollectionRepository {
	return crud[sale.Collection, *sale.Collection]{
		s:      s,
		entity: "receivable collection",
		table:  func(st *state) *table[sale.Collection, *sale.Collection] { return st.collections },
		date:   docDate[*sale.Collection],
		match: func(c *sale.Collection, f domain.ListFilter) bool {
			return counterparty(c.SaleID, f)
		},
	}
}

// SalesReturns returns the sales return repository.
func (s *Store) SalesReturns() sales_return.Repository {
	return docs[sales_return.SalesReturn, *sales_return.SalesReturn, sales_return.Item]{
		crud: crud[sales_return.SalesReturn, *sales_return.SalesReturn]{
			s:      s,
			entity: "sales return",
			table: func(st *state) *table[sales_return.SalesReturn, *sales_return.SalesReturn] {
				return st.salesReturns
			},
			date: docDate[*sales_return.SalesReturn],
			match: func(r *sales_return.SalesReturn, f domain.ListFilter) bool {
				return optCounterparty(r.SaleID, f) && (containsFold(r.Number, f.Search) || containsFold(r.CustomerName, f.Search))
			},
		},
		items: func(st *state) *lines[sales_return.Item] { return st.salesReturnItems },
	}
}

// Expenses returns the expense repository.
func (s *Store) Expenses() expense.Repository {
	return crud[expense.Expense, *expense.Expense]{
		s:      s,
		entity: "expense",
		table:  func(st *state) *table[expense.Expense, *expense.Expense] { return st.expenses },
		date:   docDate[*expense.Expense],
		match: func(e *expense.Expense, f domain.ListFilter) bool {
			return counterparty(e.LedgerAccountID, f) && containsFold(e.Description, f.Search)
		},
	}
}

// ManualEntries returns the manual entry repository.
func (s *Store) ManualEntries() manual_entry.Repository {
	return crud[manual_entry.ManualEntry, *manual_entry.ManualEntry]{
		s:      s,
		entity: "manual entry",
		table:  func(st *state) *table[manual_entry.ManualEntry, *manual_entry.ManualEntry] { return st.manualEntries },
		date:   docDate[*manual_entry.ManualEntry],
		match: func(m *manual_entry.ManualEntry, f domain.ListFilter) bool {
			return containsFold(m.Description, f.Search)
		},
	}
}

// SupplierPayments returns the supplier payment repository.
func (s *Store) SupplierPayments() supplier_payment.Repository {
	return crud[supplier_payment.Payment, *supplier_payment.Payment]{
		s:      s,
		entity: "supplier payment",
		table:  func(st *state) *table[supplier_payment.Payment, *supplier_payment.Payment] { return st.supplierPayments },
		date:   docDate[*supplier_payment.Payment],
		match: func(p *supplier_payment.Payment, f domain.ListFilter) bool {
			return counterparty(p.SupplierID, f)
		},
	}
}
