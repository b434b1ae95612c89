// Package scenario builds tests as immutable, lazily evaluated pipelines of
// arrange, act and assert stages.
//
// # Overview
//
// A scenario moves through three stage types:
//
//  1. Arranged[T]: produces the test data
//  2. Acted[T, R]: turns the data into the result under test
//  3. Asserted[T, R]: checks the data and result; the only runnable stage
//
// Every call returns a new value wrapping the previous stage. Nothing runs
// until Run is called.
//
// # Basic Usage
//
// The aaa and bdd packages name the same operations two ways:
//
//	test := aaa.Assert(
//	    aaa.Act(
//	        aaa.Arrange(func() int { return 1 }),
//	        func(x int) int { return x + 2 },
//	    ),
//	    check.Equal(3),
//	)
//
//	func TestAdd(t *testing.T) {
//	    test.Test(t)
//	}
//
// or, split into steps:
//
//	given := bdd.Given(func() *Account { return NewAccount(100) })
//	when := bdd.When(given, func(a *Account) error { return a.Withdraw(30) })
//	then := bdd.ThenBoth(when, func(a *Account, err error) error { ... })
//	err := then.Run(ctx)
//
// Go methods cannot introduce type parameters, so steps that change a type
// are package functions; steps that keep the types are methods (And, Named,
// ManualDispose, Throw).
//
// # Assertions
//
// Every assertion added with And runs, even after one fails. Two or more
// failures are reported together as *AssertionErrors.
//
// Predicates keep their source for failure messages:
//
//	aaa.AssertThat(acted, func(x int) bool { return x > 4 && x < 6 })
//	// x => x > 4 && x < 6 is not true for the result 3
//
// The source is read from the test file at failure time. Use Labeled when the
// binary runs without its sources.
//
// # Expected Failures
//
// Throw and ThrowAs turn the act step's error into the result:
//
//	aaa.AssertFailsWith(acted, func(err *NotFoundError) error { ... })
//
// If the act step succeeds the run fails with a *NoFailureError. A panic in
// any stage is recovered into a *PanicError and can be expected the same way.
//
// # Disposal
//
// Values produced by arrange and act steps that implement Shutdown(ctx) error,
// Close() error or Close() are released when the run finishes, whether it
// passed or not:
//
//	conn := aaa.ArrangeCtx(func(ctx context.Context) (*Conn, error) {
//	    return Dial(ctx)
//	})
//	// conn.Close() runs after the assertions
//
// Wrap a value in Manual to keep it alive, call ManualDispose on the scenario
// to keep everything alive, or register extra work with OnCleanup. Every
// tracked value is attempted; failures come back as one *DisposeError.
//
// # Composition
//
// Select and SelectMany map and bind arranged data; SelectResult and
// SelectManyResult do the same for act results. Combine runs many arrange
// steps concurrently and CombineAsserted runs whole scenarios side by side,
// phase by phase.
//
// # Runners and Extensions
//
// A Runner applies extensions around every stage and keeps a run history:
//
//	runner := scenario.NewRunner(
//	    scenario.WithLogger(logger),
//	    scenario.WithExtension(extensions.NewLoggingExtension(logger)),
//	)
//	err := test.RunWith(ctx, runner)
//
// Asserted.Run uses DefaultRunner. Package config builds a runner from
// SCENARIO_* environment variables.
//
// # Thread Safety
//
// Stage values are immutable and can be run from several goroutines. Each
// run owns its disposal set.
package scenario
