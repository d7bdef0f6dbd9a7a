// Package tx defines the transaction boundary used by domain services.
// Storage backends (postgres, memory) provide the implementation.
package tx

import (
	"context"
)

// Manager runs a unit of work atomically.
//
// If fn returns an error every write made through ctx is rolled back,
// otherwise the work is committed. Nested calls join the outer transaction.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// InTransaction reports whether ctx carries an active transaction of any backend.
func InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(activeKey{}).(bool)
	return v
}

// MarkActive returns ctx flagged as running inside a transaction.
// Backends call it when they open the outermost transaction.
func MarkActive(ctx context.Context) context.Context {
	return context.WithValue(ctx, activeKey{}, true)
}

type activeKey struct{}
