package memory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/core/apperror"
)

func TestIdempotency_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := New().Idempotency(time.Hour)
	repo.now = func() time.Time { return clock }

	replay, err := repo.Acquire(ctx, "k", "POST /api/sales", "h1")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = repo.Acquire(ctx, "k", "POST /api/sales", "h1")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotency), err)

	require.NoError(t, repo.Complete(ctx, "k", http.StatusOK, "application/json", map[string]int{"id": 1}))

	replay, err = repo.Acquire(ctx, "k", "POST /api/sales", "h1")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, http.StatusOK, replay.StatusCode)
	assert.JSONEq(t, `{"id":1}`, string(replay.Body))

	_, err = repo.Acquire(ctx, "k", "POST /api/sales", "h2")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotency), err)
}

func TestIdempotency_StalePendingIsReclaimed(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := New().Idempotency(time.Hour)
	repo.now = func() time.Time { return clock }

	_, err := repo.Acquire(ctx, "k", "PUT /api/sales/1", "h")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	replay, err := repo.Acquire(ctx, "k", "PUT /api/sales/1", "h")
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func TestIdempotency_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := New().Idempotency(time.Hour)
	repo.now = func() time.Time { return clock }

	_, err := repo.Acquire(ctx, "old", "POST /api/expenses", "h")
	require.NoError(t, err)
	require.NoError(t, repo.Fail(ctx, "old", http.StatusUnprocessableEntity, "application/json", nil))

	clock = clock.Add(30 * time.Minute)
	_, err = repo.Acquire(ctx, "new", "POST /api/expenses", "h")
	require.NoError(t, err)

	clock = clock.Add(45 * time.Minute)
	n, err := repo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	replay, err := repo.Acquire(ctx, "old", "POST /api/expenses", "other")
	require.NoError(t, err)
	assert.Nil(t, replay)
}
