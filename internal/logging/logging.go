// Package logging builds the zerolog logger used for piperun diagnostics.
// Logs go to stderr so they never mix with command output on stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable that sets the log level.
const EnvLevel = "PIPERUN_LOG_LEVEL"

// DefaultLevel is used when no flag, environment or config value is set.
const DefaultLevel = "warn"

// Formats accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config configures New.
type Config struct {
	Level  string
	Format string
	Output io.Writer
	// NoColor disables ANSI colors in console format.
	NoColor bool
}

// New returns a logger for cfg. An empty Level means DefaultLevel, an empty
// Format means console, and a nil Output means os.Stderr.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(cfg.Format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor, TimeFormat: time.TimeOnly}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want console or json)", cfg.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// ParseLevel parses a level name. "" means DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// ResolveLevel picks the first non-empty of the flag value, $PIPERUN_LOG_LEVEL
// and the configured value.
func ResolveLevel(flag, configured string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvLevel); env != "" {
		return env
	}
	return configured
}
