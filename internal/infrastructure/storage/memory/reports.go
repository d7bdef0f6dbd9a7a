package memory

import (
	"context"
	"sort"
	"time"

	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/internal/domain/posting"
	"bookkeeper/internal/domain/reports"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	s *Store
}

var _ reports.Repository = (*ReportRepo)(nil)

// Reports returns the report repository.
func (s *Store) Reports() *ReportRepo {
	return &ReportRepo{s: s}
}

func inPeriod(t time.Time, p reports.Period) bool {
	return domain.ListFilter{DateFrom: p.From, DateTo: p.To}.InRange(t)
}

func (r *ReportRepo) AccountBalances(ctx context.Context, period reports.Period) ([]reports.AccountBalance, error) {
	var out []reports.AccountBalance
	err := r.s.do(ctx, func(st *state) error {
		byAccount := make(map[int64]*reports.AccountBalance)
		for _, a := range st.accounts.all(nil) {
			b := &reports.AccountBalance{
				AccountID: a.ID,
				Code:      a.Code,
				Name:      a.Name,
				Role:      a.Role,
				Opening:   types.Zero(),
				Debit:     types.Zero(),
				Credit:    types.Zero(),
			}
			if g, ok := st.groups.get(a.GroupID); ok {
				b.GroupName = g.Name
				b.AccountType = g.AccountType
			}
			byAccount[a.ID] = b
		}

		for _, t := range st.transactions.all(nil) {
			before := period.From != nil && t.Date.Before(*period.From)
			if !before && !inPeriod(t.Date, period) {
				continue
			}
			for _, e := range st.entries.list([]int64{t.ID}) {
				b, ok := byAccount[e.LedgerAccountID]
				if !ok {
					continue
				}
				signed := e.Amount
				if e.Type == ledger.Credit {
					signed = signed.Neg()
				}
				switch {
				case before:
					b.Opening = b.Opening.Add(signed)
				case e.Type == ledger.Debit:
					b.Debit = b.Debit.Add(e.Amount)
				default:
					b.Credit = b.Credit.Add(e.Amount)
				}
			}
		}

		for _, a := range st.accounts.all(nil) {
			out = append(out, *byAccount[a.ID])
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) CashLines(ctx context.Context, cashAccountID int64, period reports.Period) ([]reports.CashLine, error) {
	var out []reports.CashLine
	err := r.s.do(ctx, func(st *state) error {
		for _, t := range st.transactions.all(func(t *ledger.Transaction) bool { return inPeriod(t.Date, period) }) {
			for _, e := range st.entries.list([]int64{t.ID}) {
				if e.LedgerAccountID != cashAccountID {
					continue
				}
				out = append(out, reports.CashLine{
					TransactionID: t.ID,
					Date:          t.Date,
					Type:          t.Type,
					ReferenceID:   t.ReferenceID,
					EntryType:     e.Type,
					Amount:        e.Amount,
				})
			}
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) SaleLines(ctx context.Context, period reports.Period) ([]reports.SaleLine, error) {
	var out []reports.SaleLine
	err := r.s.do(ctx, func(st *state) error {
		for _, sl := range st.sales.all(func(s *sale.Sale) bool { return inPeriod(s.Date, period) }) {
			sl.Items = st.saleItems.list([]int64{sl.ID})
			out = append(out, reports.SaleLine{Date: sl.Date, Subtotal: sl.Subtotal(), Discount: sl.Discount})
		}
		for _, sr := range st.salesReturns.all(func(r *sales_return.SalesReturn) bool { return inPeriod(r.Date, period) }) {
			sr.Items = st.salesReturnItems.list([]int64{sr.ID})
			out = append(out, reports.SaleLine{Date: sr.Date, IsReturn: true, Subtotal: sr.Total(), Discount: types.Zero()})
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) ExpenseLines(ctx context.Context, period reports.Period) ([]reports.ExpenseLine, error) {
	var out []reports.ExpenseLine
	err := r.s.do(ctx, func(st *state) error {
		for _, e := range st.expenses.all(func(e *expense.Expense) bool { return inPeriod(e.Date, period) }) {
			line := reports.ExpenseLine{AccountID: e.LedgerAccountID, Amount: e.Amount}
			if a, ok := st.accounts.get(e.LedgerAccountID); ok {
				line.Code, line.Name = a.Code, a.Name
			}
			out = append(out, line)
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) InventoryRows(ctx context.Context) ([]reports.InventoryRow, error) {
	var out []reports.InventoryRow
	err := r.s.do(ctx, func(st *state) error {
		for _, p := range st.products.all(nil) {
			row := reports.InventoryRow{ProductID: p.ID, Name: p.Name, Stock: p.Stock, Price: p.Price}
			if p.CategoryID != nil {
				if c, ok := st.categories.get(*p.CategoryID); ok {
					row.Category = categoryName(c)
				}
			}
			out = append(out, row)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func categoryName(c *category.Category) *string {
	name := c.Name
	return &name
}

func (r *ReportRepo) ReceivableRows(ctx context.Context, asOf time.Time) ([]reports.ReceivableRow, error) {
	var out []reports.ReceivableRow
	err := r.s.do(ctx, func(st *state) error {
		for _, sl := range st.sales.all(func(s *sale.Sale) bool {
			return s.PaymentMethod == posting.Credit && s.PayableAmount.IsPositive() && !s.Date.After(asOf)
		}) {
			out = append(out, reports.ReceivableRow{
				SaleID:        sl.ID,
				Number:        sl.Number,
				Date:          sl.Date,
				CustomerName:  sl.CustomerName,
				PayableAmount: sl.PayableAmount,
			})
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) PayableRows(ctx context.Context) ([]reports.PayableRow, error) {
	var out []reports.PayableRow
	err := r.s.do(ctx, func(st *state) error {
		for _, sup := range st.suppliers.all(func(s *supplier.Supplier) bool { return !s.PayableAmount.IsZero() }) {
			out = append(out, reports.PayableRow{
				SupplierID:    sup.ID,
				Name:          sup.Name,
				Phone:         sup.Phone,
				PayableAmount: sup.PayableAmount,
			})
		}
		return nil
	})
	return out, err
}
