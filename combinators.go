package scenario

import "context"

// Select maps the arranged data through fn.
func Select[T, U any](a Arranged[T], fn func(data T) U) Arranged[U] {
	return Extend(a, func(_ context.Context, data T) (U, error) {
		return fn(data), nil
	})
}

// SelectCtx is Select for projections that need the context or can fail.
func SelectCtx[T, U any](a Arranged[T], fn func(ctx context.Context, data T) (U, error)) Arranged[U] {
	return Extend(a, fn)
}

// SelectResult maps the act result through fn; the arrange step is untouched.
func SelectResult[T, R, R2 any](a Acted[T, R], fn func(result R) R2) Acted[T, R2] {
	return Continue(a, func(_ context.Context, _ T, result R) (R2, error) {
		return fn(result), nil
	})
}

// SelectMany binds the arranged data to another arranged stage and runs it.
func SelectMany[T, U any](a Arranged[T], fn func(data T) Arranged[U]) Arranged[U] {
	return SelectManyWith(a, fn, func(_ T, inner U) U {
		return inner
	})
}

// SelectManyWith is SelectMany that fuses both values with project.
func SelectManyWith[T, U, V any](a Arranged[T], fn func(data T) Arranged[U], project func(data T, inner U) V) Arranged[V] {
	return Extend(a, func(ctx context.Context, data T) (V, error) {
		var zero V
		inner, err := fn(data).Arrange(ctx)
		if err != nil {
			return zero, err
		}
		return project(data, inner), nil
	})
}

// SelectManyResult binds the act result to another acted stage. The inner
// act step receives the same arranged data as the outer one; its own arrange
// step is never run.
func SelectManyResult[T, R, R2 any](a Acted[T, R], fn func(result R) Acted[T, R2]) Acted[T, R2] {
	return SelectManyResultWith(a, fn, func(_ R, inner R2) R2 {
		return inner
	})
}

// SelectManyResultWith is SelectManyResult that fuses both results with project.
func SelectManyResultWith[T, R, R2, R3 any](a Acted[T, R], fn func(result R) Acted[T, R2], project func(result R, inner R2) R3) Acted[T, R3] {
	return Continue(a, func(ctx context.Context, data T, result R) (R3, error) {
		var zero R3
		inner, err := fn(result).Act(ctx, data)
		if err != nil {
			return zero, err
		}
		return project(result, inner), nil
	})
}
