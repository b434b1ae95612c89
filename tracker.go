package scenario

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"
)

// ShutdownDisposer is the context-aware disposal form. It is preferred over
// io.Closer when a value implements both.
type ShutdownDisposer interface {
	Shutdown(ctx context.Context) error
}

type silentCloser interface {
	Close()
}

type cleanupEntry struct {
	value any
	fn    func(ctx context.Context) error
}

// tracker is the disposal set of a single run.
type tracker struct {
	mu      sync.Mutex
	seen    map[any]struct{}
	entries []cleanupEntry
}

func newTracker() *tracker {
	return &tracker{seen: make(map[any]struct{})}
}

func (t *tracker) track(v any) bool {
	fn := disposeFunc(v)
	if fn == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// interface fields can hold unhashable values behind a comparable type
	if reflect.ValueOf(v).Comparable() {
		if _, ok := t.seen[v]; ok {
			return false
		}
		t.seen[v] = struct{}{}
	}
	t.entries = append(t.entries, cleanupEntry{value: v, fn: fn})
	return true
}

func (t *tracker) onCleanup(fn func() error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, cleanupEntry{fn: func(context.Context) error { return fn() }})
}

func (t *tracker) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// drain releases every entry in reverse registration order. A failing entry
// never stops the remaining ones.
func (t *tracker) drain(ctx context.Context) error {
	t.mu.Lock()
	entries := t.entries
	t.entries = nil
	t.seen = make(map[any]struct{})
	t.mu.Unlock()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		if err := runCleanup(ctx, entries[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &DisposeError{Errs: errs}
	}
	return nil
}

func runCleanup(ctx context.Context, entry cleanupEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while disposing %T: %v", entry.value, r)
		}
	}()

	if err := entry.fn(ctx); err != nil {
		if entry.value != nil {
			return fmt.Errorf("disposing %T: %w", entry.value, err)
		}
		return err
	}
	return nil
}

// Disposable reports whether the run would take ownership of v.
func Disposable(v any) bool {
	return disposeFunc(v) != nil
}

// Dispose releases v through the strongest disposal capability it exposes.
// Values without one are ignored.
func Dispose(ctx context.Context, v any) error {
	fn := disposeFunc(v)
	if fn == nil {
		return nil
	}
	return runCleanup(ctx, cleanupEntry{value: v, fn: fn})
}

func disposeFunc(v any) func(ctx context.Context) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(manualOwner); ok {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil
		}
	}

	switch d := v.(type) {
	case ShutdownDisposer:
		return d.Shutdown
	case io.Closer:
		return func(context.Context) error { return d.Close() }
	case silentCloser:
		return func(context.Context) error {
			d.Close()
			return nil
		}
	}
	return nil
}
