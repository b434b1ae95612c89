package scenario

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// NoFailureError is returned when a stage expected to fail completed normally.
// Throw and ThrowAs never capture it, so it always reaches the caller.
type NoFailureError struct {
	Name string
}

func (e *NoFailureError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("Test %q did not fail as expected", e.Name)
	}
	return "Test did not fail as expected"
}

func newNoFailure(name string) error {
	return pkgerrors.WithStack(&NoFailureError{Name: name})
}

// IsNoFailure reports whether err carries a NoFailureError.
func IsNoFailure(err error) bool {
	var nf *NoFailureError
	return errors.As(err, &nf)
}

// PanicError is what a stage function turns into when it panics.
type PanicError struct {
	Stage OperationKind
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s stage: %v", e.Stage, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AssertionErrors aggregates the failures of every assertion of one scenario.
type AssertionErrors struct {
	Errs []error
}

func (e *AssertionErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d assertions failed:", len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n  - ")
		b.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n    "))
	}
	return b.String()
}

func (e *AssertionErrors) Unwrap() []error {
	return e.Errs
}

// JoinAssertions folds assertion results into a single error. Nil entries are
// dropped, nested AssertionErrors are flattened and a lone failure is returned
// unchanged.
func JoinAssertions(errs ...error) error {
	var flat []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if agg, ok := err.(*AssertionErrors); ok {
			flat = append(flat, agg.Errs...)
			continue
		}
		flat = append(flat, err)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &AssertionErrors{Errs: flat}
	}
}

// DisposeError collects every failure raised while releasing tracked values.
type DisposeError struct {
	Errs []error
}

func (e *DisposeError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("disposing tracked values: %s", strings.Join(msgs, "; "))
}

func (e *DisposeError) Unwrap() []error {
	return e.Errs
}

// ErrIncomplete is returned when a zero-value stage is run.
var ErrIncomplete = errors.New("scenario: stage was not constructed")
