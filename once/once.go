// Package once provides single-evaluation values shared by concurrent callers.
package once

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// Value evaluates its producer on the first Get and hands the same outcome,
// value or error, to every caller afterwards.
type Value[T any] struct {
	mu      sync.Mutex
	started bool
	done    chan struct{}
	fn      func(ctx context.Context) (T, error)
	val     T
	err     error
}

// New creates a value produced by fn. fn runs at most once, in the
// background, on a context that keeps the first caller's values but not its
// cancellation.
func New[T any](fn func(ctx context.Context) (T, error)) *Value[T] {
	return &Value[T]{
		fn:   fn,
		done: make(chan struct{}),
	}
}

func NewFunc[T any](fn func() T) *Value[T] {
	return New(func(context.Context) (T, error) {
		return fn(), nil
	})
}

// Get returns the value, starting the evaluation if no caller has done so
// yet. Every caller waits for the outcome or for its own ctx.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	v.mu.Lock()
	if !v.started {
		v.started = true
		go v.evaluate(context.WithoutCancel(ctx))
	}
	v.mu.Unlock()

	if v.Ready() {
		return v.val, v.err
	}
	select {
	case <-v.done:
		return v.val, v.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (v *Value[T]) evaluate(ctx context.Context) {
	defer close(v.done)
	defer func() {
		if r := recover(); r != nil {
			v.err = fmt.Errorf("panic while evaluating once value: %v\n%s", r, debug.Stack())
		}
	}()
	v.val, v.err = v.fn(ctx)
}

// Wait blocks until the evaluation started by Get has completed or ctx is
// done. It never starts the evaluation itself.
func (v *Value[T]) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed reports whether the evaluation completed with an error.
func (v *Value[T]) Failed() bool {
	return v.Ready() && v.err != nil
}

// Ready reports whether the evaluation has completed.
func (v *Value[T]) Ready() bool {
	select {
	case <-v.done:
		return true
	default:
		return false
	}
}

// Select derives a memoized value from v; v itself is still evaluated once.
func Select[T, U any](v *Value[T], fn func(T) U) *Value[U] {
	return New(func(ctx context.Context) (U, error) {
		t, err := v.Get(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(t), nil
	})
}

// SelectMany combines v with the memoized value fn returns for it.
func SelectMany[T, U, V any](v *Value[T], fn func(T) *Value[U], project func(T, U) V) *Value[V] {
	return New(func(ctx context.Context) (V, error) {
		var zero V
		t, err := v.Get(ctx)
		if err != nil {
			return zero, err
		}
		u, err := fn(t).Get(ctx)
		if err != nil {
			return zero, err
		}
		return project(t, u), nil
	})
}

// Arrange exposes v as the arrange step of a scenario. The value outlives
// any single run, so runs never dispose it.
func Arrange[T any](v *Value[T]) scenario.Arranged[T] {
	return scenario.Borrow(v.Get)
}
