package scenario

import (
	"context"
	"runtime/debug"
)

// runKey is an unexported type to prevent collisions with context keys from other packages.
type runKey struct{}

type runState struct {
	id      string
	name    string
	runner  *Runner
	tracker *tracker
}

func withRun(ctx context.Context, rs *runState) context.Context {
	return context.WithValue(ctx, runKey{}, rs)
}

func runFrom(ctx context.Context) (*runState, bool) {
	rs, ok := ctx.Value(runKey{}).(*runState)
	return rs, ok
}

// Track hands v to the disposal set of the run carried by ctx. Packages that
// introduce their own producers call it for values they create outside the
// core constructors. It reports whether v was newly tracked.
func Track(ctx context.Context, v any) bool {
	rs, ok := runFrom(ctx)
	if !ok {
		return false
	}
	return rs.tracker.track(v)
}

// OnCleanup registers fn to run when the current run disposes its values.
func OnCleanup(ctx context.Context, fn func() error) {
	if rs, ok := runFrom(ctx); ok {
		rs.tracker.onCleanup(fn)
	}
}

// RunID returns the id of the run carried by ctx.
func RunID(ctx context.Context) (string, bool) {
	rs, ok := runFrom(ctx)
	if !ok {
		return "", false
	}
	return rs.id, true
}

// untracked returns ctx with the current run swapped for one whose disposal
// set is never drained. Values produced under it stay alive.
func untracked(ctx context.Context) context.Context {
	rs, ok := runFrom(ctx)
	if !ok {
		return ctx
	}
	detached := *rs
	detached.tracker = newTracker()
	return withRun(ctx, &detached)
}

func scenarioName(ctx context.Context, fallback string) string {
	if rs, ok := runFrom(ctx); ok && rs.name != "" {
		return rs.name
	}
	return fallback
}

// guard converts a panic raised by user code into a PanicError.
func guard[R any](stage OperationKind, fn func() (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			result = zero
			err = &PanicError{Stage: stage, Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

func guardErr(stage OperationKind, fn func() error) error {
	_, err := guard(stage, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
