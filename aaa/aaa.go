// Package aaa is the Arrange/Act/Assert vocabulary over the scenario core.
// It is interchangeable with package bdd: both build the same stage types.
package aaa

import (
	"context"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// Arrange starts a scenario from a producer of test data.
func Arrange[T any](fn func() T) scenario.Arranged[T] {
	return scenario.Produce(func(context.Context) (T, error) {
		return fn(), nil
	})
}

func ArrangeCtx[T any](fn func(ctx context.Context) (T, error)) scenario.Arranged[T] {
	return scenario.Produce(fn)
}

// And derives new data from the arranged data.
func And[T, U any](a scenario.Arranged[T], fn func(data T) U) scenario.Arranged[U] {
	return scenario.Select(a, fn)
}

func AndCtx[T, U any](a scenario.Arranged[T], fn func(ctx context.Context, data T) (U, error)) scenario.Arranged[U] {
	return scenario.Extend(a, fn)
}

// Act adds the operation under test.
func Act[T, R any](a scenario.Arranged[T], fn func(data T) R) scenario.Acted[T, R] {
	return scenario.Transform(a, func(_ context.Context, data T) (R, error) {
		return fn(data), nil
	})
}

func ActCtx[T, R any](a scenario.Arranged[T], fn func(ctx context.Context, data T) (R, error)) scenario.Acted[T, R] {
	return scenario.Transform(a, fn)
}

// AndResult derives a new result from the data and the previous result.
func AndResult[T, R, R2 any](a scenario.Acted[T, R], fn func(data T, result R) R2) scenario.Acted[T, R2] {
	return scenario.Continue(a, func(_ context.Context, data T, result R) (R2, error) {
		return fn(data, result), nil
	})
}

func AndResultCtx[T, R, R2 any](a scenario.Acted[T, R], fn func(ctx context.Context, data T, result R) (R2, error)) scenario.Acted[T, R2] {
	return scenario.Continue(a, fn)
}

// Assert checks the result.
func Assert[T, R any](a scenario.Acted[T, R], fn func(result R) error) scenario.Asserted[T, R] {
	return scenario.Verify(a, func(_ context.Context, _ T, result R) error {
		return fn(result)
	})
}

// AssertBoth checks the arranged data together with the result.
func AssertBoth[T, R any](a scenario.Acted[T, R], fn func(data T, result R) error) scenario.Asserted[T, R] {
	return scenario.Verify(a, func(_ context.Context, data T, result R) error {
		return fn(data, result)
	})
}

func AssertCtx[T, R any](a scenario.Acted[T, R], fn scenario.Assertion[T, R]) scenario.Asserted[T, R] {
	return scenario.Verify(a, fn)
}

// AssertThat checks a predicate on the result. On failure the message shows
// the predicate as written and the actual result.
func AssertThat[T, R any](a scenario.Acted[T, R], fn func(result R) bool) scenario.Asserted[T, R] {
	expr := scenario.ThatCaller(1, fn)
	return scenario.Verify(a, func(_ context.Context, _ T, result R) error {
		return expr.Check(result)
	})
}

func AssertThatBoth[T, R any](a scenario.Acted[T, R], fn func(data T, result R) bool) scenario.Asserted[T, R] {
	expr := scenario.That2Caller(1, fn)
	return scenario.Verify(a, func(_ context.Context, data T, result R) error {
		return expr.Check(data, result)
	})
}

// AssertFailsWith expects the act step to fail with an error matching E and
// checks that error.
func AssertFailsWith[E error, T, R any](a scenario.Acted[T, R], fn func(err E) error) scenario.Asserted[T, E] {
	return scenario.Verify(scenario.ThrowAs[E](a), func(_ context.Context, _ T, err E) error {
		return fn(err)
	})
}

func AssertFailsWithBoth[E error, T, R any](a scenario.Acted[T, R], fn func(data T, err E) error) scenario.Asserted[T, E] {
	return scenario.Verify(scenario.ThrowAs[E](a), func(_ context.Context, data T, err E) error {
		return fn(data, err)
	})
}

func AssertFailsWithThat[E error, T, R any](a scenario.Acted[T, R], fn func(err E) bool) scenario.Asserted[T, E] {
	expr := scenario.ThatCaller(1, fn)
	return scenario.Verify(scenario.ThrowAs[E](a), func(_ context.Context, _ T, err E) error {
		return expr.Check(err)
	})
}
