// Package audit records who did what. Every mutating operation in the
// service layer emits one entry here. The current sink is the application's
// structured logger; the interface exists so a database-backed sink can be
// dropped in without touching the services.
package audit

import (
	"context"
	"log/slog"
)

// Level classifies an audit entry. Only INFO is emitted today.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is a single audit record.
type Entry struct {
	Message string
	UserID  string
	Level   Level
}

// Logger receives audit entries. Implementations must be safe for
// concurrent use and must never fail the calling operation.
type Logger interface {
	Log(ctx context.Context, e Entry)
}

// SlogLogger writes audit entries to a *slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger.With(slog.String("component", "audit"))}
}

func (l *SlogLogger) Log(ctx context.Context, e Entry) {
	attrs := []any{
		slog.String("userId", e.UserID),
		slog.String("level", string(e.Level)),
	}
	switch e.Level {
	case LevelError:
		l.logger.ErrorContext(ctx, e.Message, attrs...)
	case LevelWarn:
		l.logger.WarnContext(ctx, e.Message, attrs...)
	default:
		l.logger.InfoContext(ctx, e.Message, attrs...)
	}
}

// Discard is an audit sink that drops every entry. Used in tests.
type Discard struct{}

func (Discard) Log(context.Context, Entry) {}
