package ledger

import (
	"context"
	"fmt"
	"time"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/domain"
	"bookkeeper/pkg/logger"
)

// Recorder writes and removes transactions. Its write methods must run inside
// the caller's database transaction so they commit or roll back with the
// inventory and balance changes of the same event.
type Recorder struct {
	repo Repository
	now  func() time.Time
}

// NewRecorder creates a new transaction recorder.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record validates the posting and stores one transaction with its entries.
func (r *Recorder) Record(ctx context.Context, p Posting) (*Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	debit, _ := Totals(p.Lines)
	t := &Transaction{
		Date:        p.Date,
		Type:        p.Type,
		ReferenceID: p.ReferenceID,
		TotalAmount: debit,
		Description: p.Description,
		CreatedAt:   r.now(),
	}
	if err := r.repo.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction %s: %w", p.ReferenceID, err)
	}

	t.Entries = make([]JournalEntry, len(p.Lines))
	for i, l := range p.Lines {
		t.Entries[i] = JournalEntry{
			TransactionID:   t.ID,
			LedgerAccountID: l.AccountID,
			Type:            l.Type,
			Amount:          l.Amount,
			Description:     l.Description,
		}
	}
	if err := r.repo.CreateEntries(ctx, t.Entries); err != nil {
		return nil, fmt.Errorf("create entries %s: %w", p.ReferenceID, err)
	}

	logger.Debug(ctx, "transaction recorded",
		"reference_id", t.ReferenceID,
		"type", t.Type,
		"total", t.TotalAmount.String(),
	)
	return t, nil
}

// Remove deletes the transaction tagged referenceID and its entries.
func (r *Recorder) Remove(ctx context.Context, referenceID string) error {
	t, err := r.repo.GetByReference(ctx, referenceID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("transaction", referenceID)
		}
		return err
	}
	if err := r.repo.DeleteEntries(ctx, t.ID); err != nil {
		return fmt.Errorf("delete entries %s: %w", referenceID, err)
	}
	if err := r.repo.DeleteTransaction(ctx, t.ID); err != nil {
		return fmt.Errorf("delete transaction %s: %w", referenceID, err)
	}
	return nil
}

// Replace removes the transaction tagged with the posting's reference and records the posting.
func (r *Recorder) Replace(ctx context.Context, p Posting) (*Transaction, error) {
	if err := r.Remove(ctx, p.ReferenceID); err != nil {
		return nil, err
	}
	return r.Record(ctx, p)
}

// Get returns a transaction with its entries.
func (r *Recorder) Get(ctx context.Context, id int64) (*Transaction, error) {
	t, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("transaction", id)
		}
		return nil, err
	}
	return t, r.attachEntries(ctx, []*Transaction{t})
}

// GetByReference returns the transaction tagged referenceID with its entries.
func (r *Recorder) GetByReference(ctx context.Context, referenceID string) (*Transaction, error) {
	t, err := r.repo.GetByReference(ctx, referenceID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("transaction", referenceID)
		}
		return nil, err
	}
	return t, r.attachEntries(ctx, []*Transaction{t})
}

// List returns transactions with their entries.
func (r *Recorder) List(ctx context.Context, f Filter) (domain.ListResult[*Transaction], error) {
	norm := domain.ListFilter{Limit: f.Limit, Offset: f.Offset}.Normalize()
	f.Limit, f.Offset = norm.Limit, norm.Offset

	res, err := r.repo.List(ctx, f)
	if err != nil {
		return res, err
	}
	return res, r.attachEntries(ctx, res.Items)
}

func (r *Recorder) attachEntries(ctx context.Context, txs []*Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	ids := make([]int64, len(txs))
	byID := make(map[int64]*Transaction, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Entries = nil
	}
	entries, err := r.repo.ListEntries(ctx, ids)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	for _, e := range entries {
		if t, ok := byID[e.TransactionID]; ok {
			t.Entries = append(t.Entries, e)
		}
	}
	return nil
}
