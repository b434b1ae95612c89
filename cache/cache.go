// Package cache keeps expensive fixtures alive across scenarios and disposes
// them together.
package cache

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	scenario "github.com/pumped-fn/pumped-scenario"
	"github.com/pumped-fn/pumped-scenario/once"
)

// Disposing is a keyed cache that builds each value at most once and
// releases every disposable value on Dispose.
type Disposing[K comparable, V any] struct {
	data sync.Map
}

func New[K comparable, V any]() *Disposing[K, V] {
	return &Disposing[K, V]{}
}

func (c *Disposing[K, V]) entry(key K, factory func(ctx context.Context) (V, error)) *once.Value[V] {
	if e, ok := c.data.Load(key); ok {
		return e.(*once.Value[V])
	}
	e, _ := c.data.LoadOrStore(key, once.New(factory))
	return e.(*once.Value[V])
}

// Get returns the cached value for key, building it with factory when it is
// missing. Concurrent callers for the same key share one factory call; a
// caller whose ctx ends first stops waiting but leaves the build running. A
// failed build is not cached.
func (c *Disposing[K, V]) Get(ctx context.Context, key K, factory func(ctx context.Context) (V, error)) (V, error) {
	e := c.entry(key, factory)
	v, err := e.Get(ctx)
	if err != nil && e.Failed() {
		c.data.CompareAndDelete(key, e)
	}
	return v, err
}

// Load returns the value for key if it has been built.
func (c *Disposing[K, V]) Load(key K) (V, bool) {
	var zero V
	raw, ok := c.data.Load(key)
	if !ok {
		return zero, false
	}
	e := raw.(*once.Value[V])
	if !e.Ready() {
		return zero, false
	}
	v, err := e.Get(context.Background())
	if err != nil {
		return zero, false
	}
	return v, true
}

func (c *Disposing[K, V]) Len() int {
	count := 0
	c.data.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Dispose releases every disposable value and empties the cache. Builds still
// in flight are waited for, bounded by ctx. All values are attempted; failures
// are returned together.
func (c *Disposing[K, V]) Dispose(ctx context.Context) error {
	var errs []error
	c.data.Range(func(key, raw any) bool {
		c.data.Delete(key)
		e := raw.(*once.Value[V])
		if err := e.Wait(ctx); err != nil {
			errs = append(errs, errors.Wrapf(err, "waiting for cached value %v", key))
			return true
		}
		if e.Failed() {
			return true
		}
		v, err := e.Get(ctx)
		if err != nil {
			return true
		}
		if err := scenario.Dispose(ctx, v); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	if len(errs) > 0 {
		return &scenario.DisposeError{Errs: errs}
	}
	return nil
}
