package domain

import "context"

// HookEvent names the point in a catalog or document lifecycle where checks
// run. All events fire inside the write transaction, before anything is
// persisted or posted.
type HookEvent uint8

const (
	BeforeCreate HookEvent = iota + 1
	BeforeUpdate
	BeforeDelete
)

func (e HookEvent) String() string {
	switch e {
	case BeforeCreate:
		return "before_create"
	case BeforeUpdate:
		return "before_update"
	case BeforeDelete:
		return "before_delete"
	}
	return "unknown"
}

// Hook checks or enriches an entity. A non-nil error aborts the operation
// and rolls back its transaction.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry keeps checks per event in registration order.
type HookRegistry[T any] struct {
	byEvent map[HookEvent][]Hook[T]
}

func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{byEvent: map[HookEvent][]Hook[T]{}}
}

// On appends hooks for event.
func (r *HookRegistry[T]) On(event HookEvent, hooks ...Hook[T]) {
	r.byEvent[event] = append(r.byEvent[event], hooks...)
}

// Run stops at the first failing hook.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, h := range r.byEvent[event] {
		if err := h(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
