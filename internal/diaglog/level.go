package diaglog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalidLevel is returned for a level outside the supported set.
var ErrInvalidLevel = errors.New("invalid logging level")

// Level is the severity of a diagnostic log call.
type Level string

const (
	LevelInfo      Level = "INFO"
	LevelDebug     Level = "DEBUG"
	LevelWarning   Level = "WARNING"
	LevelError     Level = "ERROR"
	LevelException Level = "EXCEPTION"
)

// ParseLevel resolves s case-insensitively.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	switch l {
	case LevelInfo, LevelDebug, LevelWarning, LevelError, LevelException:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// slogLevel maps the level onto the live stream severity.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError, LevelException:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
