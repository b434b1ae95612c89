package scenario

import "context"

// Acted holds an arrange step and the act step that turns its data into the
// result under test.
type Acted[T, R any] struct {
	name    string
	arrange func(ctx context.Context) (T, error)
	act     func(ctx context.Context, data T) (R, error)
}

// Transform adds the act step fn to a. Its result is tracked for disposal.
func Transform[T, R any](a Arranged[T], fn func(ctx context.Context, data T) (R, error)) Acted[T, R] {
	return Acted[T, R]{
		name:    a.name,
		arrange: a.arrange,
		act: func(ctx context.Context, data T) (R, error) {
			result, err := guard(OpAct, func() (R, error) {
				return fn(ctx, data)
			})
			if err != nil {
				return result, err
			}
			Track(ctx, result)
			return result, nil
		},
	}
}

// Continue appends fn to the act step, deriving a new result from the data
// and the previous result.
func Continue[T, R, R2 any](a Acted[T, R], fn func(ctx context.Context, data T, result R) (R2, error)) Acted[T, R2] {
	prev := a.act
	return Acted[T, R2]{
		name:    a.name,
		arrange: a.arrange,
		act: func(ctx context.Context, data T) (R2, error) {
			var zero R2
			if prev == nil {
				return zero, ErrIncomplete
			}
			result, err := prev(ctx, data)
			if err != nil {
				return zero, err
			}
			next, err := guard(OpAct, func() (R2, error) {
				return fn(ctx, data, result)
			})
			if err != nil {
				return next, err
			}
			Track(ctx, next)
			return next, nil
		},
	}
}

func (a Acted[T, R]) Name() string {
	return a.name
}

func (a Acted[T, R]) Named(name string) Acted[T, R] {
	a.name = name
	return a
}

// And runs fn against the data and result and passes the result on unchanged.
func (a Acted[T, R]) And(fn func(data T, result R)) Acted[T, R] {
	return a.AndCtx(func(_ context.Context, data T, result R) error {
		fn(data, result)
		return nil
	})
}

func (a Acted[T, R]) AndCtx(fn func(ctx context.Context, data T, result R) error) Acted[T, R] {
	prev := a.act
	return Acted[T, R]{
		name:    a.name,
		arrange: a.arrange,
		act: func(ctx context.Context, data T) (R, error) {
			if prev == nil {
				var zero R
				return zero, ErrIncomplete
			}
			result, err := prev(ctx, data)
			if err != nil {
				return result, err
			}
			if err := guardErr(OpAct, func() error { return fn(ctx, data, result) }); err != nil {
				return result, err
			}
			return result, nil
		},
	}
}

// Arranged returns the arrange step of a as a standalone stage.
func (a Acted[T, R]) Arranged() Arranged[T] {
	return Arranged[T]{name: a.name, arrange: a.arrange}
}

// Act executes only the act step against data.
func (a Acted[T, R]) Act(ctx context.Context, data T) (R, error) {
	if a.act == nil {
		var zero R
		return zero, ErrIncomplete
	}
	return a.act(ctx, data)
}
