package bdd_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	scenario "github.com/pumped-fn/pumped-scenario"
	"github.com/pumped-fn/pumped-scenario/aaa"
	"github.com/pumped-fn/pumped-scenario/bdd"
	"github.com/pumped-fn/pumped-scenario/check"
)

var errInsufficientFunds = errors.New("insufficient funds")

type account struct {
	balance int
	closed  bool
}

func (a *account) Withdraw(n int) error {
	if n > a.balance {
		return fmt.Errorf("withdrawing %d: %w", n, errInsufficientFunds)
	}
	a.balance -= n
	return nil
}

func (a *account) Close() error {
	a.closed = true
	return nil
}

var _ = Describe("Given/When/Then", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("a withdrawal", func() {
		var acc *account
		var given scenario.Arranged[*account]

		BeforeEach(func() {
			acc = nil
			given = bdd.Given(func() *account {
				acc = &account{balance: 100}
				return acc
			})
		})

		It("reduces the balance", func() {
			then := bdd.ThenBoth(
				bdd.When(given, func(a *account) error { return a.Withdraw(30) }),
				func(a *account, err error) error {
					if err != nil {
						return err
					}
					return check.Equal(70)(a.balance)
				},
			)

			Expect(then.Run(ctx)).To(Succeed())
			Expect(acc.closed).To(BeTrue())
		})

		It("fails when the balance is too low", func() {
			then := bdd.ThenFailsWith(
				bdd.WhenCtx(given, func(_ context.Context, a *account) (int, error) {
					return a.balance, a.Withdraw(500)
				}),
				func(err error) error {
					if !errors.Is(err, errInsufficientFunds) {
						return fmt.Errorf("unexpected error %v", err)
					}
					return nil
				},
			)

			Expect(then.Run(ctx)).To(Succeed())
		})

		It("reports a withdrawal that unexpectedly succeeds", func() {
			then := bdd.ThenFailsWith(
				bdd.WhenCtx(given.Named("small withdrawal"), func(_ context.Context, a *account) (int, error) {
					return a.balance, a.Withdraw(5)
				}),
				func(error) error { return nil },
			)

			err := then.Run(ctx)
			Expect(scenario.IsNoFailure(err)).To(BeTrue())
			Expect(err).To(MatchError(`Test "small withdrawal" did not fail as expected`))
		})
	})

	Describe("predicates", func() {
		It("describes the failing predicate", func() {
			when := bdd.When(bdd.Given(func() int { return 1 }), func(x int) int { return x + 2 })
			then := bdd.ThenThat(when, func(x int) bool { return x > 4 && x < 6 })

			Expect(then.Run(ctx)).To(MatchError("x => x > 4 && x < 6 is not true for the result 3"))
		})

		It("describes predicates over data and result", func() {
			when := bdd.When(bdd.Given(func() int { return 1 }), func(x int) int { return x + 2 })
			then := bdd.ThenThatBoth(when, func(d, r int) bool { return r == d })

			Expect(then.Run(ctx)).To(MatchError("(d, r) => r == d is not true for the result 3 and data 1"))
		})

		It("describes predicates over expected errors", func() {
			when := bdd.WhenCtx(bdd.Given(func() int { return 1 }), func(context.Context, int) (int, error) {
				return 0, errors.New("boom")
			})
			then := bdd.ThenFailsWithThat(when, func(err error) bool { return err == nil })

			Expect(then.Run(ctx)).To(MatchError("err => err == nil is not true for the result boom"))
		})
	})

	Describe("chaining", func() {
		It("derives data and results", func() {
			given := bdd.And(bdd.Given(func() int { return 2 }), func(x int) int { return x * 10 })
			given = bdd.AndCtx(given, func(_ context.Context, x int) (int, error) { return x + 1, nil })
			when := bdd.AndResult(bdd.When(given, func(x int) int { return x * 2 }), func(d, r int) int { return r - d })
			when = bdd.AndResultCtx(when, func(_ context.Context, d, r int) (int, error) { return r + 1, nil })

			then := bdd.Then(when, check.Equal(22)).
				AndBoth(func(d, r int) error { return check.Equal(21)(d) })

			Expect(then.Run(ctx)).To(Succeed())
		})

		It("runs every assertion and reports each failure", func() {
			when := bdd.When(bdd.Given(func() int { return 1 }), func(x int) int { return x })
			then := bdd.ThenCtx(when, func(context.Context, int, int) error { return errors.New("first") }).
				And(func(int) error { return errors.New("second") })

			err := then.Run(ctx)
			var agg *scenario.AssertionErrors
			Expect(errors.As(err, &agg)).To(BeTrue())
			Expect(agg.Errs).To(HaveLen(2))
			Expect(err.Error()).To(ContainSubstring("first"))
			Expect(err.Error()).To(ContainSubstring("second"))
		})

		It("checks failures together with the data", func() {
			when := bdd.WhenCtx(bdd.Given(func() int { return 7 }), func(context.Context, int) (int, error) {
				return 0, errors.New("boom")
			})
			then := bdd.ThenFailsWithBoth(when, func(d int, err error) error {
				return check.Equal(7)(d)
			})

			Expect(then.Run(ctx)).To(Succeed())
		})
	})

	Describe("interchangeable syntaxes", func() {
		It("builds the same stages as aaa", func() {
			arranged := aaa.Arrange(func() int { return 5 })
			then := bdd.Then(bdd.When(arranged, func(x int) int { return x * x }), check.Equal(25))

			Expect(then.Run(ctx)).To(Succeed())

			given := bdd.Given(func() int { return 5 })
			asserted := aaa.Assert(aaa.Act(given, func(x int) int { return x * x }), check.Matches[int](Equal(25)))

			Expect(asserted.Run(ctx)).To(Succeed())
		})
	})
})
