package extensions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// FailureReportExtension writes a stage-by-stage report when a run fails.
//
// Usage:
//
//	runner := scenario.NewRunner(
//	    scenario.WithExtension(extensions.NewFailureReportExtension(os.Stderr)),
//	)
//
// Passing runs produce no output.
type FailureReportExtension struct {
	scenario.BaseExtension

	mu     sync.Mutex
	stages map[string][]stageOutcome
	writer io.Writer
}

type stageOutcome struct {
	kind scenario.OperationKind
	took time.Duration
	err  error
}

// NewFailureReportExtension creates a new failure report extension writing to w.
func NewFailureReportExtension(w io.Writer) *FailureReportExtension {
	return &FailureReportExtension{
		BaseExtension: scenario.NewBaseExtension("failure-report"),
		stages:        make(map[string][]stageOutcome),
		writer:        w,
	}
}

// Wrap records the outcome of every stage
func (e *FailureReportExtension) Wrap(ctx context.Context, next func(context.Context) error, op *scenario.Operation) error {
	start := time.Now()
	err := next(ctx)

	e.mu.Lock()
	e.stages[op.RunID] = append(e.stages[op.RunID], stageOutcome{
		kind: op.Kind,
		took: time.Since(start),
		err:  err,
	})
	e.mu.Unlock()

	return err
}

// OnRunEnd writes the report for failed runs and forgets the run
func (e *FailureReportExtension) OnRunEnd(ctx context.Context, rec *scenario.RunRecord, err error) error {
	e.mu.Lock()
	stages := e.stages[rec.ID]
	delete(e.stages, rec.ID)
	e.mu.Unlock()

	if err == nil {
		return nil
	}
	_, werr := io.WriteString(e.writer, formatReport(rec, stages, err))
	return werr
}

func formatReport(rec *scenario.RunRecord, stages []stageOutcome, err error) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 70)

	name := rec.Scenario
	if name == "" {
		name = "(unnamed scenario)"
	}

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("[FailureReport] Scenario Failed\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "\nScenario: %s\n", name)
	fmt.Fprintf(&sb, "Run: %s\n", rec.ID)
	fmt.Fprintf(&sb, "Tracked values: %d\n", rec.Tracked)

	sb.WriteString("\nStages:\n")
	for i, s := range stages {
		branch := "├─>"
		if i == len(stages)-1 {
			branch = "└─>"
		}
		status := "✓"
		if s.err != nil {
			status = "❌"
		}
		fmt.Fprintf(&sb, "  %s %s %s (%s)\n", branch, s.kind, status, s.took.Round(time.Microsecond))
	}

	sb.WriteString("\nError Details:\n")
	fmt.Fprintf(&sb, "  %s\n", strings.ReplaceAll(err.Error(), "\n", "\n  "))

	var panicErr *scenario.PanicError
	if errors.As(err, &panicErr) {
		fmt.Fprintf(&sb, "\nStack Trace:\n%s\n", panicErr.Stack)
	}

	sb.WriteString(rule + "\n")
	return sb.String()
}
