package scenario

import "context"

// Extension provides hooks into the run lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Wrap intercepts a stage (arrange, act, assert, dispose)
	Wrap(ctx context.Context, next func(context.Context) error, op *Operation) error

	// OnRunStart is called before the arrange stage; an error aborts the run
	OnRunStart(ctx context.Context, rec *RunRecord) error

	// OnRunEnd is called once disposal has finished
	OnRunEnd(ctx context.Context, rec *RunRecord, err error) error

	// OnDisposeError handles disposal failures
	// Returns true if the error was handled, false to report it from Run
	OnDisposeError(err *DisposeError, rec *RunRecord) bool
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Wrap(ctx context.Context, next func(context.Context) error, op *Operation) error {
	return next(ctx)
}

func (e *BaseExtension) OnRunStart(ctx context.Context, rec *RunRecord) error {
	return nil
}

func (e *BaseExtension) OnRunEnd(ctx context.Context, rec *RunRecord, err error) error {
	return nil
}

func (e *BaseExtension) OnDisposeError(err *DisposeError, rec *RunRecord) bool {
	return false
}

// Operation describes which stage of which run is executing
type Operation struct {
	Kind     OperationKind
	RunID    string
	Scenario string
}

// OperationKind names a pipeline stage
type OperationKind string

const (
	// OpArrange produces the scenario data
	OpArrange OperationKind = "arrange"
	// OpAct produces the result under test
	OpAct OperationKind = "act"
	// OpAssert evaluates the assertions
	OpAssert OperationKind = "assert"
	// OpDispose releases tracked values
	OpDispose OperationKind = "dispose"
)
