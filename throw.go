package scenario

import (
	"context"
	"errors"
)

// Throw expects the act step to fail and turns its error into the result.
func (a Acted[T, R]) Throw() Acted[T, error] {
	return ThrowAs[error](a)
}

// ThrowAs expects the act step to fail with an error matching E (errors.As).
// The matching error becomes the result. Other errors pass through untouched
// and a successful act step fails with a NoFailureError.
func ThrowAs[E error, T, R any](a Acted[T, R]) Acted[T, E] {
	prev := a.act
	name := a.name
	return Acted[T, E]{
		name:    a.name,
		arrange: a.arrange,
		act: func(ctx context.Context, data T) (E, error) {
			var zero E
			if prev == nil {
				return zero, ErrIncomplete
			}
			_, err := prev(ctx, data)
			if err == nil {
				return zero, newNoFailure(scenarioName(ctx, name))
			}
			if IsNoFailure(err) {
				return zero, err
			}
			var target E
			if errors.As(err, &target) {
				return target, nil
			}
			return zero, err
		},
	}
}
