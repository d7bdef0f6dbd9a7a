package posting

import (
	"context"
	"fmt"
	"time"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/tx"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/inventory"
	"bookkeeper/internal/domain/ledger"
	"bookkeeper/pkg/logger"
)

// PayableAdjuster moves supplier payables.
type PayableAdjuster interface {
	AdjustPayable(ctx context.Context, supplierID int64, delta types.Money) (types.Money, error)
}

// ReceivableAdjuster moves the outstanding amount of credit sales.
type ReceivableAdjuster interface {
	AdjustReceivable(ctx context.Context, saleID int64, delta types.Money) (types.Money, error)
}

// Numberer allocates human-readable document numbers.
type Numberer interface {
	Next(ctx context.Context, prefix string, period time.Time) (string, error)
}

// Config wires the engine's collaborators.
type Config struct {
	TxManager   tx.Manager
	Inventory   *inventory.Ledger
	Recorder    *ledger.Recorder
	Roles       accounts.Roles
	Payables    PayableAdjuster
	Receivables ReceivableAdjuster
	Numbers     Numberer
}

// Engine posts and unposts documents inside one database transaction.
type Engine struct {
	txManager   tx.Manager
	inventory   *inventory.Ledger
	recorder    *ledger.Recorder
	roles       accounts.Roles
	payables    PayableAdjuster
	receivables ReceivableAdjuster
	numbers     Numberer
}

// NewEngine creates a new posting engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		txManager:   cfg.TxManager,
		inventory:   cfg.Inventory,
		recorder:    cfg.Recorder,
		roles:       cfg.Roles,
		payables:    cfg.Payables,
		receivables: cfg.Receivables,
		numbers:     cfg.Numbers,
	}
}

// Run executes fn in one database transaction.
func (e *Engine) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return e.txManager.RunInTransaction(ctx, fn)
}

// Roles returns the resolved role mapping.
func (e *Engine) Roles() accounts.Roles {
	return e.roles
}

// Recorder returns the transaction recorder.
func (e *Engine) Recorder() *ledger.Recorder {
	return e.recorder
}

// Number allocates the next document number for prefix.
func (e *Engine) Number(ctx context.Context, prefix string, date time.Time) (string, error) {
	if e.numbers == nil {
		return "", nil
	}
	return e.numbers.Next(ctx, prefix, date)
}

// Post applies the document's inventory movements and balance changes and
// records its journal transaction. Must run inside Run.
func (e *Engine) Post(ctx context.Context, doc Document) (*ledger.Transaction, error) {
	for _, m := range doc.Movements() {
		if err := e.move(ctx, m, false); err != nil {
			return nil, err
		}
	}
	for _, b := range doc.Balances() {
		if err := e.adjust(ctx, b, false); err != nil {
			return nil, err
		}
	}

	entry, err := doc.Entry(e.roles)
	if err != nil {
		return nil, err
	}
	t, err := e.recorder.Record(ctx, entry)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document posted",
		"reference_id", t.ReferenceID,
		"type", t.Type,
		"total", t.TotalAmount.String(),
	)
	return t, nil
}

// Unpost removes the document's journal transaction, then reverses its
// inventory movements and balance changes. Must run inside Run.
func (e *Engine) Unpost(ctx context.Context, doc Document) error {
	if err := e.recorder.Remove(ctx, doc.Reference()); err != nil {
		return err
	}
	for _, m := range doc.Movements() {
		if err := e.move(ctx, m, true); err != nil {
			return err
		}
	}
	for _, b := range doc.Balances() {
		if err := e.adjust(ctx, b, true); err != nil {
			return err
		}
	}

	logger.Info(ctx, "document unposted", "reference_id", doc.Reference())
	return nil
}

func (e *Engine) move(ctx context.Context, m Movement, reverse bool) error {
	inv := e.inventory
	switch m.Kind {
	case Receipt:
		if reverse {
			return inv.ReversePurchase(ctx, m.ProductID, m.Quantity, m.UnitCost)
		}
		return inv.Purchase(ctx, m.ProductID, m.Quantity, m.UnitCost)
	case SupplierReturn:
		if reverse {
			return inv.ReverseSupplierReturn(ctx, m.ProductID, m.Quantity, m.UnitCost)
		}
		return inv.ReturnToSupplier(ctx, m.ProductID, m.Quantity, m.UnitCost)
	case Sale:
		if reverse {
			return inv.ReverseSale(ctx, m.ProductID, m.Quantity)
		}
		return inv.Sell(ctx, m.ProductID, m.Quantity)
	case CustomerReturn:
		if reverse {
			return inv.ReverseCustomerReturn(ctx, m.ProductID, m.Quantity)
		}
		return inv.ReturnFromCustomer(ctx, m.ProductID, m.Quantity)
	}
	return fmt.Errorf("unknown movement kind %d", m.Kind)
}

// adjust applies a balance change; reversals skip the non-negative check.
func (e *Engine) adjust(ctx context.Context, b BalanceChange, reverse bool) error {
	delta := b.Delta
	switch {
	case b.Capped && reverse:
		delta = b.Applied.Abs()
		if b.Delta.IsPositive() {
			delta = delta.Neg()
		}
	case b.Capped && b.Delta.IsNegative():
		// a zero move locks the row and reads the outstanding balance
		outstanding, err := e.balance(ctx, b.Kind, b.ID, types.Zero())
		if err != nil {
			return err
		}
		if outstanding.Add(delta).IsNegative() {
			delta = outstanding.Neg()
			if delta.IsPositive() {
				delta = types.Zero()
			}
		}
		*b.Applied = delta.Abs()
	case b.Capped:
		*b.Applied = delta.Abs()
	case reverse:
		delta = delta.Neg()
	}

	balance, err := e.balance(ctx, b.Kind, b.ID, delta)
	if err != nil {
		return err
	}

	if !reverse && b.NonNegative && balance.IsNegative() {
		entity := b.Kind.String()
		return apperror.NewBusinessRule(apperror.CodeOverpayment, fmt.Sprintf("amount exceeds the outstanding %s balance", entity)).
			WithDetail(entity+"_id", b.ID).
			WithDetail("outstanding", balance.Sub(delta).String()).
			WithDetail("requested", delta.Neg().String())
	}
	return nil
}

// balance moves a counterparty balance by delta and returns the new balance.
func (e *Engine) balance(ctx context.Context, kind BalanceKind, id int64, delta types.Money) (types.Money, error) {
	var (
		balance types.Money
		err     error
	)
	switch kind {
	case SupplierPayable:
		balance, err = e.payables.AdjustPayable(ctx, id, delta)
	case SaleReceivable:
		balance, err = e.receivables.AdjustReceivable(ctx, id, delta)
	default:
		return balance, fmt.Errorf("unknown balance kind %d", kind)
	}
	if apperror.IsNotFound(err) {
		return balance, apperror.NewNotFound(kind.String(), id)
	}
	return balance, err
}
