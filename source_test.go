package scenario

import "testing"

func TestShortFuncName(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "github.com/pumped-fn/pumped-scenario/aaa.AssertThat[...]", want: "AssertThat"},
		{in: "github.com/pumped-fn/pumped-scenario.Asserted[...].AndThat", want: "AndThat"},
		{in: "github.com/pumped-fn/pumped-scenario.That[...]", want: "That"},
		{in: "main.check", want: "check"},
		{in: "check", want: "check"},
	}
	for _, tc := range cases {
		if got := shortFuncName(tc.in); got != tc.want {
			t.Errorf("shortFuncName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCaptureSite_NamesReceivingFunction(t *testing.T) {
	e := That(func(x int) bool { return x > 1 })
	if e.site.callee != "That" {
		t.Fatalf("expected callee That, got %q", e.site.callee)
	}
	if !e.site.ok || e.site.line == 0 {
		t.Fatalf("expected a resolved call site, got %+v", e.site)
	}
}

func TestPredicateSource_PrefersNamedCall(t *testing.T) {
	same := func(a, b Expr[int]) (Expr[int], Expr[int]) { return a, b }
	first, _ := same(That(func(x int) bool { return x == 1 }), Labeled("other", func(x int) bool { return x == 2 }))

	if got := first.Source(); got != "x => x == 1" {
		t.Fatalf("expected the literal passed to That, got %q", got)
	}
}
