package scenario

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"runtime"
	"strings"
	"sync"
)

// callSite is where a predicate literal was handed to the library. callee is
// the short name of the function it was handed to.
type callSite struct {
	file   string
	line   int
	ok     bool
	callee string
}

// captureSite records the caller of the function skip frames above its own
// caller, together with the name of that function.
func captureSite(skip int) callSite {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	callee, more := frames.Next()
	if !more {
		return callSite{}
	}
	site, _ := frames.Next()
	return callSite{
		file:   site.File,
		line:   site.Line,
		ok:     site.File != "",
		callee: shortFuncName(callee.Function),
	}
}

// shortFuncName reduces "example.com/pkg.Type[...].Method" to "Method".
func shortFuncName(full string) string {
	full = strings.ReplaceAll(full, "[...]", "")
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}

func calledName(fun ast.Expr) string {
	for {
		switch f := fun.(type) {
		case *ast.Ident:
			return f.Name
		case *ast.SelectorExpr:
			return f.Sel.Name
		case *ast.IndexExpr:
			fun = f.X
		case *ast.IndexListExpr:
			fun = f.X
		case *ast.ParenExpr:
			fun = f.X
		default:
			return ""
		}
	}
}

type parsedFile struct {
	fset *token.FileSet
	file *ast.File
	err  error
}

var parsedFiles sync.Map

func parseSource(path string) *parsedFile {
	if v, ok := parsedFiles.Load(path); ok {
		return v.(*parsedFile)
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	actual, _ := parsedFiles.LoadOrStore(path, &parsedFile{fset: fset, file: f, err: err})
	return actual.(*parsedFile)
}

type predicateCandidate struct {
	lit        *ast.FuncLit
	span       int
	nameMatch  bool
	parenMatch bool
}

// better ranks candidates: the call naming the receiving function first, then
// a call opened on the site line, then the narrowest call.
func (c *predicateCandidate) better(than *predicateCandidate) bool {
	if c.nameMatch != than.nameMatch {
		return c.nameMatch
	}
	if c.parenMatch != than.parenMatch {
		return c.parenMatch
	}
	return c.span <= than.span
}

// predicateSource renders the bool-returning func literal passed at the call
// site, as "x => <returned expression>" when the body is a single return.
func (s callSite) predicateSource() (string, bool) {
	if !s.ok || s.file == "" {
		return "", false
	}
	pf := parseSource(s.file)
	if pf.err != nil {
		return "", false
	}

	var candidates []predicateCandidate
	ast.Inspect(pf.file, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		start := pf.fset.Position(n.Pos()).Line
		end := pf.fset.Position(n.End()).Line
		if s.line < start || s.line > end {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		for _, arg := range call.Args {
			lit, ok := arg.(*ast.FuncLit)
			if !ok || !returnsBool(lit) {
				continue
			}
			candidates = append(candidates, predicateCandidate{
				lit:        lit,
				span:       end - start,
				nameMatch:  s.callee != "" && calledName(call.Fun) == s.callee,
				parenMatch: pf.fset.Position(call.Lparen).Line == s.line,
			})
		}
		return true
	})

	var best *predicateCandidate
	for i := range candidates {
		if c := &candidates[i]; best == nil || c.better(best) {
			best = c
		}
	}
	if best == nil {
		return "", false
	}
	return renderPredicate(pf.fset, best.lit), true
}

func returnsBool(lit *ast.FuncLit) bool {
	results := lit.Type.Results
	if results == nil || len(results.List) != 1 {
		return false
	}
	ident, ok := results.List[0].Type.(*ast.Ident)
	return ok && ident.Name == "bool"
}

func renderPredicate(fset *token.FileSet, lit *ast.FuncLit) string {
	var names []string
	for _, field := range lit.Type.Params.List {
		if len(field.Names) == 0 {
			names = append(names, "_")
			continue
		}
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}

	body := ""
	if len(lit.Body.List) == 1 {
		if ret, ok := lit.Body.List[0].(*ast.ReturnStmt); ok && len(ret.Results) == 1 {
			body = nodeString(fset, ret.Results[0])
		}
	}
	if body == "" {
		return nodeString(fset, lit)
	}

	if len(names) == 1 {
		return names[0] + " => " + body
	}
	return "(" + strings.Join(names, ", ") + ") => " + body
}

func nodeString(fset *token.FileSet, node ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return ""
	}
	return buf.String()
}
