package scenario

import "context"

// Arranged is the first stage of a scenario: a deferred producer of test data.
// It is immutable; every combinator returns a new value wrapping this one.
type Arranged[T any] struct {
	name    string
	arrange func(ctx context.Context) (T, error)
}

// Produce builds an Arranged stage from fn. fn is not called until the
// scenario runs; its result is tracked for disposal.
func Produce[T any](fn func(ctx context.Context) (T, error)) Arranged[T] {
	return Arranged[T]{
		arrange: func(ctx context.Context) (T, error) {
			v, err := guard(OpArrange, func() (T, error) {
				return fn(ctx)
			})
			if err != nil {
				return v, err
			}
			Track(ctx, v)
			return v, nil
		},
	}
}

// Borrow builds an Arranged stage whose value is owned elsewhere, such as a
// cache or a memoized value. Runs never dispose it.
func Borrow[T any](fn func(ctx context.Context) (T, error)) Arranged[T] {
	return Arranged[T]{
		arrange: func(ctx context.Context) (T, error) {
			return guard(OpArrange, func() (T, error) {
				return fn(ctx)
			})
		},
	}
}

// Extend appends fn to the arrange step, producing new data from the previous one.
func Extend[T, U any](a Arranged[T], fn func(ctx context.Context, data T) (U, error)) Arranged[U] {
	prev := a.arrange
	return Arranged[U]{
		name: a.name,
		arrange: func(ctx context.Context) (U, error) {
			var zero U
			if prev == nil {
				return zero, ErrIncomplete
			}
			data, err := prev(ctx)
			if err != nil {
				return zero, err
			}
			next, err := guard(OpArrange, func() (U, error) {
				return fn(ctx, data)
			})
			if err != nil {
				return next, err
			}
			Track(ctx, next)
			return next, nil
		},
	}
}

// Name returns the scenario description, empty by default.
func (a Arranged[T]) Name() string {
	return a.name
}

// Named returns a copy of a described by name.
func (a Arranged[T]) Named(name string) Arranged[T] {
	a.name = name
	return a
}

// And runs fn against the arranged data and passes the data on unchanged.
func (a Arranged[T]) And(fn func(data T)) Arranged[T] {
	return a.AndCtx(func(_ context.Context, data T) error {
		fn(data)
		return nil
	})
}

// AndCtx is And for side effects that need the context or can fail.
func (a Arranged[T]) AndCtx(fn func(ctx context.Context, data T) error) Arranged[T] {
	prev := a.arrange
	return Arranged[T]{
		name: a.name,
		arrange: func(ctx context.Context) (T, error) {
			if prev == nil {
				var zero T
				return zero, ErrIncomplete
			}
			data, err := prev(ctx)
			if err != nil {
				return data, err
			}
			if err := guardErr(OpArrange, func() error { return fn(ctx, data) }); err != nil {
				return data, err
			}
			return data, nil
		},
	}
}

// Arrange executes the arrange step. Every call runs the producer again.
// Values are only tracked for disposal when ctx belongs to a run.
func (a Arranged[T]) Arrange(ctx context.Context) (T, error) {
	if a.arrange == nil {
		var zero T
		return zero, ErrIncomplete
	}
	return a.arrange(ctx)
}
