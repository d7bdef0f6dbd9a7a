package memory

import (
	"context"

	"bookkeeper/pkg/numerator"
)

// SequenceRepo implements numerator.Sequencer.
type SequenceRepo struct {
	s *Store
}

var _ numerator.Sequencer = (*SequenceRepo)(nil)

// Sequences returns the counter repository used for document numbers.
func (s *Store) Sequences() *SequenceRepo {
	return &SequenceRepo{s: s}
}

func (r *SequenceRepo) NextValue(ctx context.Context, key string) (int64, error) {
	var next int64
	err := r.s.do(ctx, func(st *state) error {
		st.sequences[key]++
		next = st.sequences[key]
		return nil
	})
	return next, err
}
