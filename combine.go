package scenario

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Combine folds many arranged stages into one producing all their data. The
// arrange steps run concurrently; results keep the input order. Every
// disposable any of them produces belongs to the combined run.
func Combine[T any](stages ...Arranged[T]) Arranged[[]T] {
	inputs := slices.Clone(stages)
	return Arranged[[]T]{
		name: joinNames(inputs, Arranged[T].Name),
		arrange: func(ctx context.Context) ([]T, error) {
			return fanOut(ctx, len(inputs), func(ctx context.Context, i int) (T, error) {
				return inputs[i].Arrange(ctx)
			})
		},
	}
}

// Sequence is Combine over a slice.
func Sequence[T any](stages []Arranged[T]) Arranged[[]T] {
	return Combine(stages...)
}

// CombineAsserted folds many scenarios of the same shape into one. Each phase
// runs concurrently across the inputs: all arrange steps, then all act steps,
// then all assertions. Input i is asserted against its own data and result.
// Inputs marked ManualDispose keep their values alive; the others are
// disposed by the combined run.
func CombineAsserted[T, R any](scenarios ...Asserted[T, R]) Asserted[[]T, []R] {
	inputs := slices.Clone(scenarios)
	keepOpen := len(inputs) > 0
	for _, in := range inputs {
		keepOpen = keepOpen && in.keepOpen
	}
	inputCtx := func(ctx context.Context, i int) context.Context {
		if inputs[i].keepOpen {
			return untracked(ctx)
		}
		return ctx
	}
	return Asserted[[]T, []R]{
		name:     joinNames(inputs, Asserted[T, R].Name),
		keepOpen: keepOpen,
		arrange: func(ctx context.Context) ([]T, error) {
			return fanOut(ctx, len(inputs), func(ctx context.Context, i int) (T, error) {
				if inputs[i].arrange == nil {
					var zero T
					return zero, ErrIncomplete
				}
				return inputs[i].arrange(inputCtx(ctx, i))
			})
		},
		act: func(ctx context.Context, data []T) ([]R, error) {
			return fanOut(ctx, len(inputs), func(ctx context.Context, i int) (R, error) {
				if inputs[i].act == nil {
					var zero R
					return zero, ErrIncomplete
				}
				return inputs[i].act(inputCtx(ctx, i), data[i])
			})
		},
		asserts: []Assertion[[]T, []R]{
			func(ctx context.Context, data []T, results []R) error {
				errs := make([]error, len(inputs))
				var wg sync.WaitGroup
				for i := range inputs {
					wg.Add(1)
					go func() {
						defer wg.Done()
						errs[i] = inputs[i].verify(ctx, data[i], results[i])
					}()
				}
				wg.Wait()
				return JoinAssertions(errs...)
			},
		},
	}
}

func fanOut[V any](ctx context.Context, n int, fn func(ctx context.Context, i int) (V, error)) ([]V, error) {
	out := make([]V, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func joinNames[S any](stages []S, name func(S) string) string {
	var names []string
	for _, s := range stages {
		if n := name(s); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}
