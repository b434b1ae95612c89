package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Runner executes scenarios: it applies extensions around every stage, owns
// the logger and keeps a bounded run history.
type Runner struct {
	mu             sync.RWMutex
	extensions     []Extension
	logger         zerolog.Logger
	history        *History
	disposeTimeout time.Duration
}

// RunnerOption is a modifier for runners
type RunnerOption func(*Runner)

// WithExtension returns an option that registers an extension to a runner
func WithExtension(ext Extension) RunnerOption {
	return func(r *Runner) {
		r.UseExtension(ext)
	}
}

// WithLogger sets the logger used for stage and disposal events
func WithLogger(logger zerolog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHistoryLimit bounds the number of retained run records; 0 keeps all
func WithHistoryLimit(limit int) RunnerOption {
	return func(r *Runner) {
		r.history = newHistory(limit)
	}
}

// WithDisposeTimeout bounds the time spent releasing tracked values
func WithDisposeTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.disposeTimeout = d
	}
}

// NewRunner creates a new runner with optional configuration
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		extensions: []Extension{},
		logger:     zerolog.Nop(),
		history:    newHistory(1000),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

var (
	defaultRunnerMu sync.RWMutex
	defaultRunner   = NewRunner()
)

// DefaultRunner returns the runner used by Asserted.Run.
func DefaultRunner() *Runner {
	defaultRunnerMu.RLock()
	defer defaultRunnerMu.RUnlock()
	return defaultRunner
}

// SetDefaultRunner replaces the runner used by Asserted.Run.
func SetDefaultRunner(r *Runner) {
	defaultRunnerMu.Lock()
	defer defaultRunnerMu.Unlock()
	defaultRunner = r
}

// UseExtension registers an extension to the runner
func (r *Runner) UseExtension(ext Extension) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extensions = append(r.extensions, ext)
	sort.SliceStable(r.extensions, func(i, j int) bool {
		return r.extensions[i].Order() < r.extensions[j].Order()
	})
}

// History returns the records of past runs
func (r *Runner) History() *History {
	return r.history
}

func (r *Runner) Logger() zerolog.Logger {
	return r.logger
}

func (r *Runner) snapshotExtensions() []Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]Extension, len(r.extensions))
	copy(exts, r.extensions)
	return exts
}

// stageFunc runs body as the stage kind of the current run.
type stageFunc func(ctx context.Context, kind OperationKind, body func(context.Context) error) error

func (r *Runner) run(ctx context.Context, name string, autoDispose bool, execute func(context.Context, stageFunc) error) (err error) {
	rs := &runState{
		id:      uuid.NewString(),
		name:    name,
		runner:  r,
		tracker: newTracker(),
	}
	ctx = withRun(ctx, rs)

	rec := &RunRecord{
		ID:       rs.id,
		Scenario: name,
		Status:   RunStatusRunning,
		Start:    time.Now(),
	}
	exts := r.snapshotExtensions()
	stage := r.stageWrapper(rs, exts)

	defer func() {
		rec.Tracked = rs.tracker.len()
		if autoDispose {
			if derr := r.dispose(ctx, rs, rec, exts, stage); derr != nil {
				if err == nil {
					err = derr
				} else {
					err = errors.Join(err, derr)
				}
			}
		}

		rec.End = time.Now()
		rec.Err = err
		if err != nil {
			rec.Status = RunStatusFailed
		} else {
			rec.Status = RunStatusPassed
		}

		for i := len(exts) - 1; i >= 0; i-- {
			if extErr := exts[i].OnRunEnd(ctx, rec, err); extErr != nil && err == nil {
				err = extErr
				rec.Err = err
				rec.Status = RunStatusFailed
			}
		}
		r.history.add(rec)
	}()

	for _, ext := range exts {
		if err := ext.OnRunStart(ctx, rec); err != nil {
			return fmt.Errorf("extension %s: %w", ext.Name(), err)
		}
	}

	return execute(ctx, stage)
}

func (r *Runner) stageWrapper(rs *runState, exts []Extension) stageFunc {
	return func(ctx context.Context, kind OperationKind, body func(context.Context) error) error {
		op := &Operation{
			Kind:     kind,
			RunID:    rs.id,
			Scenario: rs.name,
		}

		next := body
		// Apply extensions in reverse order (last registered wraps first)
		for i := len(exts) - 1; i >= 0; i-- {
			ext := exts[i]
			currentNext := next
			next = func(ctx context.Context) error {
				return ext.Wrap(ctx, currentNext, op)
			}
		}

		start := time.Now()
		err := next(ctx)
		r.logger.Debug().
			Str("run", rs.id).
			Str("scenario", rs.name).
			Str("stage", string(kind)).
			Dur("took", time.Since(start)).
			Err(err).
			Msg("stage finished")
		return err
	}
}

func (r *Runner) dispose(ctx context.Context, rs *runState, rec *RunRecord, exts []Extension, stage stageFunc) error {
	// disposal still runs when the run itself was cancelled
	ctx = context.WithoutCancel(ctx)
	if r.disposeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.disposeTimeout)
		defer cancel()
	}

	err := stage(ctx, OpDispose, rs.tracker.drain)
	if err == nil {
		return nil
	}

	var disposeErr *DisposeError
	if errors.As(err, &disposeErr) {
		for _, ext := range exts {
			if ext.OnDisposeError(disposeErr, rec) {
				return nil
			}
		}
	}
	r.logger.Warn().
		Str("run", rs.id).
		Str("scenario", rs.name).
		Err(err).
		Msg("disposal failed")
	return err
}
