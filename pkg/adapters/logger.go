package adapters

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// CharmLogger writes through a charmbracelet logger.
type CharmLogger struct {
	logger *log.Logger
}

var _ ports.Logger = (*CharmLogger)(nil)

// NewCharmLogger wraps l.
func NewCharmLogger(l *log.Logger) *CharmLogger {
	return &CharmLogger{logger: l}
}

// Log implements ports.Logger.
func (c *CharmLogger) Log(level ports.Level, msg string, fields map[string]any) {
	c.logger.Log(charmLevel(level), msg, ports.KeyVals(fields)...)
}

func charmLevel(l ports.Level) log.Level {
	switch l {
	case ports.LevelDebug:
		return log.DebugLevel
	case ports.LevelWarn:
		return log.WarnLevel
	case ports.LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SlogLogger writes through a log/slog logger.
type SlogLogger struct {
	logger *slog.Logger
}

var _ ports.Logger = (*SlogLogger)(nil)

// NewSlogLogger wraps l. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

// Log implements ports.Logger.
func (s *SlogLogger) Log(level ports.Level, msg string, fields map[string]any) {
	s.logger.Log(context.Background(), slogLevel(level), msg, ports.KeyVals(fields)...)
}

func slogLevel(l ports.Level) slog.Level {
	switch l {
	case ports.LevelDebug:
		return slog.LevelDebug
	case ports.LevelWarn:
		return slog.LevelWarn
	case ports.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
