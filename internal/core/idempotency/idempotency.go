// Package idempotency defines storage of idempotency keys: the first response
// to a keyed request is kept and replayed to retries of the same request.
package idempotency

import (
	"context"
	"time"

	"bookkeeper/internal/core/apperror"
)

// Status represents the state of an idempotent operation.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// StaleAfter is how long a pending key may stay unfinished before another
// request may reclaim it.
const StaleAfter = time.Minute

// Record stores the result of an idempotent operation.
type Record struct {
	Key         string    `db:"idempotency_key"`
	Operation   string    `db:"operation"`
	Status      Status    `db:"status"`
	RequestHash string    `db:"request_hash"`
	Response    []byte    `db:"response"`
	StatusCode  int       `db:"response_status"`
	ContentType string    `db:"response_content_type"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	ExpiresAt   time.Time `db:"expires_at"`
}

// Replay is the cached HTTP response for replay.
type Replay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Store manages idempotency keys.
type Store interface {
	// Acquire claims key for a request. It returns (nil, nil) when the key is
	// fresh, the stored response when the request already finished, and an
	// error when the key is in use or was used for a different request.
	Acquire(ctx context.Context, key, operation, requestHash string) (*Replay, error)

	// Complete stores a successful response.
	Complete(ctx context.Context, key string, statusCode int, contentType string, response any) error

	// Fail stores an error response.
	Fail(ctx context.Context, key string, statusCode int, contentType string, response any) error

	// Release drops a pending key so a retry runs the request again.
	Release(ctx context.Context, key string) error

	// CleanupExpired removes expired keys and reports how many were removed.
	CleanupExpired(ctx context.Context) (int64, error)
}

// Retryable reports whether an error reply with this status and code should
// leave the key free for a retry instead of being replayed.
func Retryable(statusCode int, code string) bool {
	return statusCode >= 500 || code == apperror.CodeConflict
}

// ReplayOf turns a finished record into a replay.
func ReplayOf(r Record) *Replay {
	status := r.StatusCode
	// Older records without status replay as 200 JSON.
	if status == 0 {
		status = 200
	}
	ct := r.ContentType
	if ct == "" {
		ct = "application/json"
	}
	return &Replay{StatusCode: status, ContentType: ct, Body: r.Response}
}
