package postgres

import (
	"context"
	"fmt"

	"bookkeeper/pkg/numerator"
)

var _ numerator.Sequencer = (*SequenceRepo)(nil)

// SequenceRepo keeps document number counters in sys_sequences.
type SequenceRepo struct {
	txManager *TxManager
}

// NewSequenceRepo creates a new sequence repository.
func NewSequenceRepo(txManager *TxManager) *SequenceRepo {
	return &SequenceRepo{txManager: txManager}
}

// NextValue implements numerator.Sequencer. The upsert locks the counter row
// until the surrounding transaction ends.
func (r *SequenceRepo) NextValue(ctx context.Context, key string) (int64, error) {
	var v int64
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = sys_sequences.value + 1
		RETURNING value
	`, key).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next sequence value %s: %w", key, err)
	}
	return v, nil
}
