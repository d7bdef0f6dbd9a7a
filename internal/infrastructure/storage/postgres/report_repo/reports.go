// Package report_repo provides the PostgreSQL implementation of report queries.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookkeeper/internal/domain/posting"
	"bookkeeper/internal/domain/reports"
	"bookkeeper/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   postgres.Builder(),
	}
}

func (r *ReportRepo) selectRows(ctx context.Context, dst any, q squirrel.Sqlizer, what string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", what, err)
	}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), dst, sql, args...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// periodWhere bounds col by the period.
func periodWhere(q squirrel.SelectBuilder, col string, p reports.Period) squirrel.SelectBuilder {
	if p.From != nil {
		q = q.Where(squirrel.GtOrEq{col: *p.From})
	}
	if p.To != nil {
		q = q.Where(squirrel.LtOrEq{col: *p.To})
	}
	return q
}

// AccountBalances sums entries per account: before period.From into the
// opening balance, within the period into debit and credit turnover.
func (r *ReportRepo) AccountBalances(ctx context.Context, period reports.Period) ([]reports.AccountBalance, error) {
	from := any(nil)
	if period.From != nil {
		from = *period.From
	}
	to := any(nil)
	if period.To != nil {
		to = *period.To
	}

	q := r.builder.
		Select(
			"a.id AS account_id", "a.code", "a.name", "g.name AS group_name", "g.account_type", "a.role",
			"COALESCE(SUM(CASE WHEN m.date < $1::date THEN CASE WHEN m.type = 'Debit' THEN m.amount ELSE -m.amount END END), 0) AS opening",
			"COALESCE(SUM(CASE WHEN ($1::date IS NULL OR m.date >= $1::date) AND m.type = 'Debit' THEN m.amount END), 0) AS debit",
			"COALESCE(SUM(CASE WHEN ($1::date IS NULL OR m.date >= $1::date) AND m.type = 'Credit' THEN m.amount END), 0) AS credit",
		).
		From("ledger_accounts a").
		Join("account_groups g ON g.id = a.group_id").
		LeftJoin(`(
			SELECT e.ledger_account_id, e.type, e.amount, t.date
			FROM journal_entries e
			JOIN transactions t ON t.id = e.transaction_id
			WHERE $2::date IS NULL OR t.date <= $2::date
		) m ON m.ledger_account_id = a.id`).
		GroupBy("a.id", "a.code", "a.name", "g.name", "g.account_type", "a.role").
		OrderBy("a.code")

	sql, _, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build account balances query: %w", err)
	}

	var out []reports.AccountBalance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, from, to); err != nil {
		return nil, fmt.Errorf("account balances: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) CashLines(ctx context.Context, cashAccountID int64, period reports.Period) ([]reports.CashLine, error) {
	q := r.builder.
		Select("t.id AS transaction_id", "t.date", "t.type", "t.reference_id", "e.type AS entry_type", "e.amount").
		From("journal_entries e").
		Join("transactions t ON t.id = e.transaction_id").
		Where(squirrel.Eq{"e.ledger_account_id": cashAccountID}).
		OrderBy("t.date", "t.id", "e.id")
	q = periodWhere(q, "t.date", period)

	var out []reports.CashLine
	return out, r.selectRows(ctx, &out, q, "cash lines")
}

func (r *ReportRepo) SaleLines(ctx context.Context, period reports.Period) ([]reports.SaleLine, error) {
	sales := periodWhere(r.builder.
		Select("s.date", "FALSE AS is_return",
			"COALESCE((SELECT SUM(i.quantity * i.price) FROM sale_items i WHERE i.sale_id = s.id), 0) AS subtotal",
			"s.discount").
		From("sales s"), "s.date", period)
	returns := periodWhere(r.builder.
		Select("sr.date", "TRUE AS is_return",
			"COALESCE((SELECT SUM(i.quantity * i.return_price) FROM sales_return_items i WHERE i.sales_return_id = sr.id), 0) AS subtotal",
			"0 AS discount").
		From("sales_returns sr"), "sr.date", period)

	var out []reports.SaleLine
	if err := r.selectRows(ctx, &out, sales, "sale lines"); err != nil {
		return nil, err
	}
	var ret []reports.SaleLine
	if err := r.selectRows(ctx, &ret, returns, "sales return lines"); err != nil {
		return nil, err
	}
	return append(out, ret...), nil
}

func (r *ReportRepo) ExpenseLines(ctx context.Context, period reports.Period) ([]reports.ExpenseLine, error) {
	q := periodWhere(r.builder.
		Select("x.ledger_account_id AS account_id", "a.code", "a.name", "x.amount").
		From("expenses x").
		Join("ledger_accounts a ON a.id = x.ledger_account_id").
		OrderBy("x.date", "x.id"), "x.date", period)

	var out []reports.ExpenseLine
	return out, r.selectRows(ctx, &out, q, "expense lines")
}

func (r *ReportRepo) InventoryRows(ctx context.Context) ([]reports.InventoryRow, error) {
	q := r.builder.
		Select("p.id AS product_id", "p.name", "c.name AS category", "p.stock", "p.price").
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		OrderBy("p.name", "p.id")

	var out []reports.InventoryRow
	return out, r.selectRows(ctx, &out, q, "inventory rows")
}

func (r *ReportRepo) ReceivableRows(ctx context.Context, asOf time.Time) ([]reports.ReceivableRow, error) {
	q := r.builder.
		Select("id AS sale_id", "number", "date", "customer_name", "payable_amount").
		From("sales").
		Where(squirrel.Eq{"payment_method": posting.Credit}).
		Where(squirrel.Gt{"payable_amount": 0}).
		Where(squirrel.LtOrEq{"date": asOf}).
		OrderBy("date", "id")

	var out []reports.ReceivableRow
	return out, r.selectRows(ctx, &out, q, "receivable rows")
}

func (r *ReportRepo) PayableRows(ctx context.Context) ([]reports.PayableRow, error) {
	q := r.builder.
		Select("id AS supplier_id", "name", "phone", "payable_amount").
		From("suppliers").
		Where(squirrel.NotEq{"payable_amount": 0}).
		OrderBy("name", "id")

	var out []reports.PayableRow
	return out, r.selectRows(ctx, &out, q, "payable rows")
}
