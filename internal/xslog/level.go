package xslog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EnvKey selects the minimum level; unset or unrecognized falls back to
// Default.
const EnvKey = "LOG_LEVEL"

const Default = LevelInfo

func Parse(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return level, nil
	}
	return "", fmt.Errorf("invalid log level: %q (valid: debug, info, warn, error)", s)
}

func FromEnv() Level {
	level, err := Parse(os.Getenv(EnvKey))
	if err != nil {
		return Default
	}
	return level
}

func (l Level) String() string { return string(l) }

func (l Level) ToSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewLogger(w io.Writer, level Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level.ToSlog(),
	}))
}

func NewLoggerFromEnv(w io.Writer) *slog.Logger {
	return NewLogger(w, FromEnv())
}
