package keeper

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	// LevelTrace is used for keeper trace information, if you really want to know what is going on.
	LevelTrace = slog.Level(-8)
)

//nolint:gochecknoglobals // recommended by slog documentation.
var (
	// level controls the level of all loggers created by NewLogger. Info by default.
	level = new(slog.LevelVar)

	// levelNames maps the keeper log levels to human-readable names.
	levelNames = map[slog.Leveler]string{
		LevelTrace: "TRACE",
	}
)

// SetLevel allows to set the global level for the loggers.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel reads a level name like "debug" or "trace".
func ParseLevel(name string) (slog.Level, error) {
	if strings.EqualFold(name, "trace") {
		return LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: invalid log level: %q", ErrConfigLoadFailed, name)
	}

	return l, nil
}

// NewLogger returns a text logger writing to w, with the global level set to l.
func NewLogger(w io.Writer, l slog.Level) *slog.Logger {
	SetLevel(l)

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   false,
		ReplaceAttr: nameLogLevels,
	}))
}

func nameLogLevels(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		l, _ := attr.Value.Any().(slog.Level)

		levelLabel, exists := levelNames[l]
		if !exists {
			levelLabel = l.String()
		}

		attr.Value = slog.StringValue(levelLabel)
	}

	return attr
}
