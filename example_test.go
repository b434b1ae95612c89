package scenario_test

import (
	"context"
	"errors"
	"fmt"

	scenario "github.com/pumped-fn/pumped-scenario"
	"github.com/pumped-fn/pumped-scenario/aaa"
	"github.com/pumped-fn/pumped-scenario/bdd"
	"github.com/pumped-fn/pumped-scenario/check"
)

func ExampleAsserted_Run() {
	test := aaa.Assert(
		aaa.Act(aaa.Arrange(func() int { return 1 }), func(x int) int { return x + 2 }),
		check.Equal(3),
	)

	fmt.Println(test.Run(context.Background()))
	// Output: <nil>
}

func ExampleAsserted_AndThat() {
	test := aaa.Assert(
		aaa.Act(aaa.Arrange(func() int { return 1 }), func(x int) int { return x + 2 }),
		check.Equal(3),
	).AndThat(func(x int) bool { return x > 4 && x < 6 })

	fmt.Println(test.Run(context.Background()))
	// Output: x => x > 4 && x < 6 is not true for the result 3
}

func ExampleActed_Throw() {
	when := bdd.WhenCtx(bdd.Given(func() string { return "order-1" }), func(_ context.Context, id string) (bool, error) {
		return false, errors.New("boom")
	})
	then := bdd.Then(when.Throw(), func(err error) error {
		fmt.Println("caught:", err)
		return nil
	})

	fmt.Println(then.Run(context.Background()))
	// Output:
	// caught: boom
	// <nil>
}

type conn struct{ name string }

func (c *conn) Close() error {
	fmt.Println("closing", c.name)
	return nil
}

func ExampleManualDisposal() {
	test := aaa.Assert(
		aaa.Act(
			aaa.Arrange(func() *conn { return &conn{name: "primary"} }),
			func(c *conn) scenario.Manual[*conn] { return scenario.ManualDisposal(&conn{name: "replica"}) },
		),
		func(scenario.Manual[*conn]) error { return nil },
	)

	fmt.Println(test.Run(context.Background()))
	// Output:
	// closing primary
	// <nil>
}
