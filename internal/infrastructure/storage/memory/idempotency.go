package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookkeeper/internal/core/apperror"
	"bookkeeper/internal/core/idempotency"
)

// IdempotencyRepo implements idempotency.Store.
type IdempotencyRepo struct {
	s   *Store
	ttl time.Duration
	now func() time.Time
}

var _ idempotency.Store = (*IdempotencyRepo)(nil)

// Idempotency returns the idempotency key store; keys expire after ttl.
func (s *Store) Idempotency(ttl time.Duration) *IdempotencyRepo {
	return &IdempotencyRepo{s: s, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func (r *IdempotencyRepo) Acquire(ctx context.Context, key, operation, requestHash string) (*idempotency.Replay, error) {
	var replay *idempotency.Replay
	err := r.s.do(ctx, func(st *state) error {
		now := r.now()
		rec, ok := st.idempotency[key]
		if !ok || rec.ExpiresAt.Before(now) {
			st.idempotency[key] = idempotency.Record{
				Key:         key,
				Operation:   operation,
				Status:      idempotency.StatusPending,
				RequestHash: requestHash,
				CreatedAt:   now,
				UpdatedAt:   now,
				ExpiresAt:   now.Add(r.ttl),
			}
			return nil
		}

		if rec.Operation != operation || rec.RequestHash != requestHash {
			return apperror.NewIdempotencyMismatch(key).
				WithDetail("stored_operation", rec.Operation).
				WithDetail("request_operation", operation)
		}

		switch rec.Status {
		case idempotency.StatusSuccess, idempotency.StatusFailed:
			replay = idempotency.ReplayOf(rec)
			return nil
		}
		if now.Sub(rec.UpdatedAt) > idempotency.StaleAfter {
			rec.UpdatedAt = now
			st.idempotency[key] = rec
			return nil
		}
		return apperror.NewIdempotencyConflict(key)
	})
	return replay, err
}

func (r *IdempotencyRepo) finish(ctx context.Context, key string, status idempotency.Status, statusCode int, contentType string, response any) error {
	var body []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		body = b
	}
	return r.s.do(ctx, func(st *state) error {
		rec, ok := st.idempotency[key]
		if !ok {
			return nil
		}
		rec.Status = status
		rec.Response = body
		rec.StatusCode = statusCode
		rec.ContentType = contentType
		rec.UpdatedAt = r.now()
		st.idempotency[key] = rec
		return nil
	})
}

func (r *IdempotencyRepo) Complete(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	return r.finish(ctx, key, idempotency.StatusSuccess, statusCode, contentType, response)
}

func (r *IdempotencyRepo) Fail(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	return r.finish(ctx, key, idempotency.StatusFailed, statusCode, contentType, response)
}

func (r *IdempotencyRepo) Release(ctx context.Context, key string) error {
	return r.s.do(ctx, func(st *state) error {
		if rec, ok := st.idempotency[key]; ok && rec.Status == idempotency.StatusPending {
			delete(st.idempotency, key)
		}
		return nil
	})
}

func (r *IdempotencyRepo) CleanupExpired(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(st *state) error {
		now := r.now()
		for k, rec := range st.idempotency {
			if rec.ExpiresAt.Before(now) {
				delete(st.idempotency, k)
				n++
			}
		}
		return nil
	})
	return n, err
}
