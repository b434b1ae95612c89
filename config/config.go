// Package config builds scenario runners from environment variables and an
// optional YAML file.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	scenario "github.com/pumped-fn/pumped-scenario"
	"github.com/pumped-fn/pumped-scenario/extensions"
)

const envPrefix = "SCENARIO"

// Config controls how scenarios are run and logged.
type Config struct {
	// LogLevel is the minimum zerolog level (debug, info, warn, error, disabled)
	LogLevel string
	// LogFormat is "console" for human-readable output or "json"
	LogFormat string
	// LogStages registers the stage logging extension
	LogStages bool
	// HistoryLimit bounds the retained run records
	HistoryLimit int
	// DisposeTimeout bounds disposal of tracked values; 0 means no bound
	DisposeTimeout time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:     "disabled",
		LogFormat:    "console",
		HistoryLimit: 1000,
	}
}

// Load reads SCENARIO_* environment variables and, when path is not empty,
// the YAML file at path. Environment variables win over the file.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("log_stages", def.LogStages)
	v.SetDefault("history_limit", def.HistoryLimit)
	v.SetDefault("dispose_timeout", def.DisposeTimeout)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", path)
		}
	}

	cfg := Config{
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		LogStages:      v.GetBool("log_stages"),
		HistoryLimit:   v.GetInt("history_limit"),
		DisposeTimeout: v.GetDuration("dispose_timeout"),
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	if cfg.HistoryLimit < 0 {
		return Config{}, errors.Errorf("history limit must not be negative, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}

// Logger builds the zerolog logger described by c, writing to w.
func (c Config) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Runner builds a runner from c. opts are applied after the configured ones.
func (c Config) Runner(w io.Writer, opts ...scenario.RunnerOption) *scenario.Runner {
	logger := c.Logger(w)
	base := []scenario.RunnerOption{
		scenario.WithLogger(logger),
		scenario.WithHistoryLimit(c.HistoryLimit),
		scenario.WithDisposeTimeout(c.DisposeTimeout),
	}
	if c.LogStages {
		base = append(base, scenario.WithExtension(extensions.NewLoggingExtension(logger)))
	}
	return scenario.NewRunner(append(base, opts...)...)
}
