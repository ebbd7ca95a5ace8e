// Package logger wraps zerolog for the bridge's internal logging.
//
// The bridge logs only on its own behalf (runtime lifecycle, teardown,
// contained panics) — never on the caller's behalf, and never to a
// destination the caller did not configure. By default everything below
// Warn is suppressed so a library embedded in a foreign process stays
// quiet.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output io.Writer
}

// DefaultConfig returns the quiet defaults appropriate for a library:
// warnings and errors only, JSON, stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "warn",
		Format: "json",
		Output: os.Stderr,
	}
}

// Logger is a thin wrapper so call sites do not depend on zerolog
// directly.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a logger from cfg; nil selects DefaultConfig.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zlog zerolog.Logger
	if cfg.Format == "console" {
		zlog = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		zlog = zerolog.New(out).With().Timestamp().Logger()
	}

	return &Logger{zlog: zlog.Level(parseLevel(cfg.Level))}
}

// With returns a child logger carrying an extra string field.
func (l *Logger) With(key, val string) *Logger {
	return &Logger{zlog: l.zlog.With().Str(key, val).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zlog.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zlog.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zlog.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zlog.Error() }

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// global is the process-wide logger used by subsystems that have no
// per-object logger. Replaceable once at startup via SetGlobal.
var global = New(nil)

// Global returns the process-wide logger.
func Global() *Logger { return global }

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) {
	if l != nil {
		global = l
	}
}
