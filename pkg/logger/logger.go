package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-logr/logr"
)

const (
	LevelOff   = "off"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatText = "text"
	FormatJSON = "json"
)

var Levels = []string{LevelOff, LevelDebug, LevelInfo, LevelWarn, LevelError}

var Formats = []string{FormatText, FormatJSON}

// New builds a logger writing to `w`. The `off` level discards everything.
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case LevelOff, "":
		return Discard(), nil
	case LevelDebug:
		l = slog.LevelDebug
	case LevelInfo:
		l = slog.LevelInfo
	case LevelWarn:
		l = slog.LevelWarn
	case LevelError:
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("creating logger: unknown level `%s`", level)
	}

	opts := slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case FormatText, "":
		return slog.New(slog.NewTextHandler(w, &opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &opts)), nil
	default:
		return nil, fmt.Errorf("creating logger: unknown format `%s`", format)
	}
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(
		io.Discard,
		&slog.HandlerOptions{Level: slog.Level(1 << 10)},
	))
}

func Context(ctx context.Context, logger *slog.Logger) context.Context {
	return logr.NewContextWithSlogLogger(ctx, logger)
}

// FromContext returns the logger stored in `ctx`, or a discarding logger if
// there is none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger := logr.FromContextAsSlogLogger(ctx); logger != nil {
		return logger
	}
	return Discard()
}
