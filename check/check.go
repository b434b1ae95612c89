// Package check turns assertion libraries into scenario assertions. Every
// helper returns a func(R) error accepted by aaa.Assert and bdd.Then.
package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/onsi/gomega/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// Equal compares the result with want and reports a (-want +got) diff.
func Equal[R any](want R, opts ...cmp.Option) func(got R) error {
	return func(got R) error {
		if diff := cmp.Diff(want, got, opts...); diff != "" {
			return fmt.Errorf("result mismatch (-want +got):\n%s", diff)
		}
		return nil
	}
}

// Matches applies a gomega matcher to the result.
func Matches[R any](matcher types.GomegaMatcher) func(got R) error {
	return func(got R) error {
		ok, err := matcher.Match(got)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(matcher.FailureMessage(got))
		}
		return nil
	}
}

// With runs testify assertions against the result. Every failed assertion
// is reported.
func With[R any](fn func(t assert.TestingT, got R)) func(got R) error {
	return func(got R) error {
		rec := &recorder{}
		fn(rec, got)
		return rec.err()
	}
}

// WithRequire runs testify require assertions; the first failure stops fn.
func WithRequire[R any](fn func(t require.TestingT, got R)) func(got R) error {
	return func(got R) (err error) {
		rec := &recorder{}
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(failNow); !ok {
					panic(r)
				}
			}
			err = rec.err()
		}()
		fn(rec, got)
		return nil
	}
}

// All applies every check and reports each failure.
func All[R any](checks ...func(got R) error) func(got R) error {
	return func(got R) error {
		errs := make([]error, len(checks))
		for i, c := range checks {
			errs[i] = c(got)
		}
		return scenario.JoinAssertions(errs...)
	}
}

type failNow struct{}

// recorder collects testify failures instead of failing a *testing.T.
type recorder struct {
	msgs []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.msgs = append(r.msgs, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (r *recorder) FailNow() {
	panic(failNow{})
}

func (r *recorder) err() error {
	if len(r.msgs) == 0 {
		return nil
	}
	errs := make([]error, len(r.msgs))
	for i, msg := range r.msgs {
		errs[i] = errors.New(msg)
	}
	return scenario.JoinAssertions(errs...)
}
