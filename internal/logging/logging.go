// Package logging configures the zerolog logger shared by every component.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables that override the logger configuration.
const (
	EnvLogLevel     = "VTLBUILD_LOG_LEVEL"
	EnvLogTimestamp = "VTLBUILD_LOG_TIMESTAMP"
	EnvLogNoColor   = "VTLBUILD_LOG_NOCOLOR"
)

// Config controls the console logger.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Out       io.Writer
}

// DefaultConfig logs at info level to stderr without timestamps.
func DefaultConfig() Config {
	return Config{
		Level: zerolog.InfoLevel,
		Out:   os.Stderr,
	}
}

var (
	mu      sync.RWMutex
	current = New(DefaultConfig())
)

// New builds a console logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	w := zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor, TimeFormat: time.TimeOnly}
	if !cfg.Timestamp {
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	c := zerolog.New(w).Level(cfg.Level).With()
	if cfg.Timestamp {
		c = c.Timestamp()
	}
	return c.Logger()
}

// Configure replaces the shared logger. Environment variables override cfg,
// and a non-empty level (typically from --log-level) overrides both.
func Configure(cfg Config, level string) error {
	applyEnvOverrides(&cfg)
	if level != "" {
		lvl, ok := ParseLevel(level)
		if !ok {
			return &LevelError{Raw: level}
		}
		cfg.Level = lvl
	}
	l := New(cfg)
	mu.Lock()
	current = l
	mu.Unlock()
	return nil
}

// Logger returns the shared logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// LevelError reports an unknown log level name.
type LevelError struct {
	Raw string
}

func (e *LevelError) Error() string {
	return "unknown log level " + strconv.Quote(e.Raw)
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
