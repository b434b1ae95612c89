// Package bdd is the Given/When/Then vocabulary over the scenario core.
// Scenarios built here are the same values package aaa builds.
package bdd

import (
	"context"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// Given starts a scenario from a producer of its preconditions.
func Given[T any](fn func() T) scenario.Arranged[T] {
	return scenario.Produce(func(context.Context) (T, error) {
		return fn(), nil
	})
}

func GivenCtx[T any](fn func(ctx context.Context) (T, error)) scenario.Arranged[T] {
	return scenario.Produce(fn)
}

func And[T, U any](a scenario.Arranged[T], fn func(data T) U) scenario.Arranged[U] {
	return scenario.Select(a, fn)
}

func AndCtx[T, U any](a scenario.Arranged[T], fn func(ctx context.Context, data T) (U, error)) scenario.Arranged[U] {
	return scenario.Extend(a, fn)
}

// When adds the event under test.
func When[T, R any](a scenario.Arranged[T], fn func(data T) R) scenario.Acted[T, R] {
	return scenario.Transform(a, func(_ context.Context, data T) (R, error) {
		return fn(data), nil
	})
}

func WhenCtx[T, R any](a scenario.Arranged[T], fn func(ctx context.Context, data T) (R, error)) scenario.Acted[T, R] {
	return scenario.Transform(a, fn)
}

func AndResult[T, R, R2 any](a scenario.Acted[T, R], fn func(data T, result R) R2) scenario.Acted[T, R2] {
	return scenario.Continue(a, func(_ context.Context, data T, result R) (R2, error) {
		return fn(data, result), nil
	})
}

func AndResultCtx[T, R, R2 any](a scenario.Acted[T, R], fn func(ctx context.Context, data T, result R) (R2, error)) scenario.Acted[T, R2] {
	return scenario.Continue(a, fn)
}

// Then states the expected outcome.
func Then[T, R any](a scenario.Acted[T, R], fn func(result R) error) scenario.Asserted[T, R] {
	return scenario.Verify(a, func(_ context.Context, _ T, result R) error {
		return fn(result)
	})
}

func ThenBoth[T, R any](a scenario.Acted[T, R], fn func(data T, result R) error) scenario.Asserted[T, R] {
	return scenario.Verify(a, func(_ context.Context, data T, result R) error {
		return fn(data, result)
	})
}

func ThenCtx[T, R any](a scenario.Acted[T, R], fn scenario.Assertion[T, R]) scenario.Asserted[T, R] {
	return scenario.Verify(a, fn)
}

// ThenThat states the outcome as a predicate; failures quote its source.
func ThenThat[T, R any](a scenario.Acted[T, R], fn func(result R) bool) scenario.Asserted[T, R] {
	expr := scenario.ThatCaller(1, fn)
	return scenario.Verify(a, func(_ context.Context, _ T, result R) error {
		return expr.Check(result)
	})
}

func ThenThatBoth[T, R any](a scenario.Acted[T, R], fn func(data T, result R) bool) scenario.Asserted[T, R] {
	expr := scenario.That2Caller(1, fn)
	return scenario.Verify(a, func(_ context.Context, data T, result R) error {
		return expr.Check(data, result)
	})
}

// ThenFailsWith expects the event to fail with an error matching E.
func ThenFailsWith[E error, T, R any](a scenario.Acted[T, R], fn func(err E) error) scenario.Asserted[T, E] {
	return scenario.Verify(scenario.ThrowAs[E](a), func(_ context.Context, _ T, err E) error {
		return fn(err)
	})
}

func ThenFailsWithBoth[E error, T, R any](a scenario.Acted[T, R], fn func(data T, err E) error) scenario.Asserted[T, E] {
	return scenario.Verify(scenario.ThrowAs[E](a), func(_ context.Context, data T, err E) error {
		return fn(data, err)
	})
}

func ThenFailsWithThat[E error, T, R any](a scenario.Acted[T, R], fn func(err E) bool) scenario.Asserted[T, E] {
	expr := scenario.ThatCaller(1, fn)
	return scenario.Verify(scenario.ThrowAs[E](a), func(_ context.Context, _ T, err E) error {
		return expr.Check(err)
	})
}
