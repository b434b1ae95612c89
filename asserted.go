package scenario

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// Assertion checks the arranged data and the acted result. A non-nil error is
// a failed assertion.
type Assertion[T, R any] func(ctx context.Context, data T, result R) error

// Asserted is the runnable stage of a scenario. Building it performs no work;
// Run executes arrange, act, every assertion and then disposal.
type Asserted[T, R any] struct {
	name     string
	arrange  func(ctx context.Context) (T, error)
	act      func(ctx context.Context, data T) (R, error)
	asserts  []Assertion[T, R]
	keepOpen bool
}

// Verify adds the first assertion to a, making it runnable.
func Verify[T, R any](a Acted[T, R], fn Assertion[T, R]) Asserted[T, R] {
	return Asserted[T, R]{
		name:    a.name,
		arrange: a.arrange,
		act:     a.act,
		asserts: []Assertion[T, R]{guardAssertion(fn)},
	}
}

func guardAssertion[T, R any](fn Assertion[T, R]) Assertion[T, R] {
	return func(ctx context.Context, data T, result R) error {
		return guardErr(OpAssert, func() error { return fn(ctx, data, result) })
	}
}

func (a Asserted[T, R]) Name() string {
	return a.name
}

func (a Asserted[T, R]) Named(name string) Asserted[T, R] {
	a.name = name
	return a
}

// AndCtx appends an assertion. Every assertion runs, even after a failure.
func (a Asserted[T, R]) AndCtx(fn Assertion[T, R]) Asserted[T, R] {
	a.asserts = append(slices.Clip(a.asserts), guardAssertion(fn))
	return a
}

// And appends an assertion on the result.
func (a Asserted[T, R]) And(fn func(result R) error) Asserted[T, R] {
	return a.AndCtx(func(_ context.Context, _ T, result R) error {
		return fn(result)
	})
}

// AndBoth appends an assertion on the data and the result.
func (a Asserted[T, R]) AndBoth(fn func(data T, result R) error) Asserted[T, R] {
	return a.AndCtx(func(_ context.Context, data T, result R) error {
		return fn(data, result)
	})
}

// AndThat appends a predicate on the result. A false outcome fails with the
// predicate source and the actual result.
func (a Asserted[T, R]) AndThat(fn func(result R) bool) Asserted[T, R] {
	expr := newExpr(fn, captureSite(0))
	return a.AndCtx(func(_ context.Context, _ T, result R) error {
		return expr.Check(result)
	})
}

// AndThatBoth is AndThat for predicates over the data and the result.
func (a Asserted[T, R]) AndThatBoth(fn func(data T, result R) bool) Asserted[T, R] {
	expr := newExpr2(fn, captureSite(0))
	return a.AndCtx(func(_ context.Context, data T, result R) error {
		return expr.Check(data, result)
	})
}

// ManualDispose returns a copy of a that leaves tracked values alive after
// running. Registered cleanups are skipped as well.
func (a Asserted[T, R]) ManualDispose() Asserted[T, R] {
	a.keepOpen = true
	return a
}

// AutoDispose reports whether running a releases tracked values.
func (a Asserted[T, R]) AutoDispose() bool {
	return !a.keepOpen
}

// Acted returns the arrange and act steps of a without its assertions.
func (a Asserted[T, R]) Acted() Acted[T, R] {
	return Acted[T, R]{name: a.name, arrange: a.arrange, act: a.act}
}

// Run executes the scenario with the default runner.
func (a Asserted[T, R]) Run(ctx context.Context) error {
	return a.RunWith(ctx, DefaultRunner())
}

// RunWith executes the scenario with r. Each call is an independent run: the
// stages execute again and own a fresh disposal set.
func (a Asserted[T, R]) RunWith(ctx context.Context, r *Runner) error {
	if r == nil {
		r = DefaultRunner()
	}
	return r.run(ctx, a.name, a.AutoDispose(), a.execute)
}

// Test runs the scenario as the body of a Go test.
func (a Asserted[T, R]) Test(t testing.TB) {
	t.Helper()
	require.NoError(t, a.Run(context.Background()))
}

// Func returns the scenario as a deferred unit of work.
func (a Asserted[T, R]) Func() func(ctx context.Context) error {
	return a.Run
}

func (a Asserted[T, R]) execute(ctx context.Context, stage stageFunc) error {
	if a.arrange == nil || a.act == nil {
		return ErrIncomplete
	}

	var (
		data   T
		result R
	)
	err := stage(ctx, OpArrange, func(ctx context.Context) error {
		var err error
		data, err = a.arrange(ctx)
		return err
	})
	if err != nil {
		return err
	}

	err = stage(ctx, OpAct, func(ctx context.Context) error {
		var err error
		result, err = a.act(ctx, data)
		return err
	})
	if err != nil {
		return err
	}

	return stage(ctx, OpAssert, func(ctx context.Context) error {
		return a.verify(ctx, data, result)
	})
}

func (a Asserted[T, R]) verify(ctx context.Context, data T, result R) error {
	errs := make([]error, 0, len(a.asserts))
	for _, assertion := range a.asserts {
		errs = append(errs, assertion(ctx, data, result))
	}
	return JoinAssertions(errs...)
}
