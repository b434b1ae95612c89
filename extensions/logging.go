package extensions

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	scenario "github.com/pumped-fn/pumped-scenario"
)

// LoggingExtension logs every stage and run outcome
type LoggingExtension struct {
	scenario.BaseExtension
	logger zerolog.Logger
}

// NewLoggingExtension creates a new logging extension
func NewLoggingExtension(logger zerolog.Logger) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: scenario.NewBaseExtension("logging"),
		logger:        logger,
	}
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func(context.Context) error, op *scenario.Operation) error {
	start := time.Now()
	e.logger.Info().
		Str("ext", e.Name()).
		Str("run", op.RunID).
		Str("scenario", op.Scenario).
		Msgf("%s starting", op.Kind)

	err := next(ctx)

	duration := time.Since(start)
	if err != nil {
		e.logger.Error().
			Str("ext", e.Name()).
			Str("run", op.RunID).
			Str("scenario", op.Scenario).
			Dur("took", duration).
			Err(err).
			Msgf("%s failed", op.Kind)
	} else {
		e.logger.Info().
			Str("ext", e.Name()).
			Str("run", op.RunID).
			Str("scenario", op.Scenario).
			Dur("took", duration).
			Msgf("%s completed", op.Kind)
	}

	return err
}

func (e *LoggingExtension) OnRunEnd(ctx context.Context, rec *scenario.RunRecord, err error) error {
	e.logger.Info().
		Str("ext", e.Name()).
		Str("run", rec.ID).
		Str("scenario", rec.Scenario).
		Stringer("status", rec.Status).
		Int("tracked", rec.Tracked).
		Dur("took", rec.Duration()).
		Msg("run finished")
	return nil
}
