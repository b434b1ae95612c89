package scenario

// Manual wraps a value the caller keeps ownership of. Runs never dispose a
// Manual, even when the wrapped value is disposable.
type Manual[T any] struct {
	value T
}

// ManualDisposal wraps v so that automatic disposal skips it.
func ManualDisposal[T any](v T) Manual[T] {
	return Manual[T]{value: v}
}

// Value returns the wrapped value.
func (m Manual[T]) Value() T {
	return m.value
}

type manualOwner interface {
	manualDisposal()
}

func (Manual[T]) manualDisposal() {}
