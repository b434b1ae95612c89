package scenario

import "fmt"

// ExprError is the failure of a predicate assertion. It carries both the
// predicate as written and the values it was evaluated against.
type ExprError struct {
	Source  string
	Result  any
	Data    any
	HasData bool
}

func (e *ExprError) Error() string {
	if e.HasData {
		return fmt.Sprintf("%s is not true for the result %v and data %v", e.Source, e.Result, e.Data)
	}
	return fmt.Sprintf("%s is not true for the result %v", e.Source, e.Result)
}

// Expr is a predicate over a result together with a way to describe it.
type Expr[R any] struct {
	fn    func(R) bool
	label string
	site  callSite
}

// That captures fn and the location it was written at. The source text of
// fn is recovered from that location when the predicate fails.
func That[R any](fn func(result R) bool) Expr[R] {
	return newExpr(fn, captureSite(0))
}

// ThatCaller is That for helpers that wrap it; skip counts the frames
// between the helper and the code holding the predicate literal.
func ThatCaller[R any](skip int, fn func(result R) bool) Expr[R] {
	return newExpr(fn, captureSite(skip))
}

// Labeled describes fn with label instead of its source. Use it when the
// binary runs without access to its sources.
func Labeled[R any](label string, fn func(result R) bool) Expr[R] {
	return Expr[R]{fn: fn, label: label}
}

func newExpr[R any](fn func(R) bool, site callSite) Expr[R] {
	return Expr[R]{fn: fn, site: site}
}

// Source returns the description used in failure messages.
func (e Expr[R]) Source() string {
	return describe(e.label, e.site)
}

// Check evaluates the predicate and returns an *ExprError when it is false.
func (e Expr[R]) Check(result R) error {
	if e.fn(result) {
		return nil
	}
	return &ExprError{Source: e.Source(), Result: result}
}

// Expr2 is a predicate over the arranged data and the result.
type Expr2[T, R any] struct {
	fn    func(T, R) bool
	label string
	site  callSite
}

func That2[T, R any](fn func(data T, result R) bool) Expr2[T, R] {
	return newExpr2(fn, captureSite(0))
}

func That2Caller[T, R any](skip int, fn func(data T, result R) bool) Expr2[T, R] {
	return newExpr2(fn, captureSite(skip))
}

func Labeled2[T, R any](label string, fn func(data T, result R) bool) Expr2[T, R] {
	return Expr2[T, R]{fn: fn, label: label}
}

func newExpr2[T, R any](fn func(T, R) bool, site callSite) Expr2[T, R] {
	return Expr2[T, R]{fn: fn, site: site}
}

func (e Expr2[T, R]) Source() string {
	return describe(e.label, e.site)
}

func (e Expr2[T, R]) Check(data T, result R) error {
	if e.fn(data, result) {
		return nil
	}
	return &ExprError{Source: e.Source(), Result: result, Data: data, HasData: true}
}

func describe(label string, site callSite) string {
	if label != "" {
		return label
	}
	if src, ok := site.predicateSource(); ok {
		return src
	}
	if site.ok {
		return fmt.Sprintf("predicate at %s:%d", site.file, site.line)
	}
	return "predicate"
}
