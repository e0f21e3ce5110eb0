// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RunIDKey is the context key for the extraction run ID
	RunIDKey contextKey = "run_id"
	// OwnerIDKey is the context key for the resolved owner ID
	OwnerIDKey contextKey = "owner_id"
	// SourceKey is the context key for the source document identifier
	SourceKey contextKey = "source"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports run_id, owner_id, and source from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if runID, ok := ctx.Value(RunIDKey).(string); ok && runID != "" {
		newLogger = newLogger.WithRunID(runID)
	}

	if ownerID, ok := ctx.Value(OwnerIDKey).(string); ok && ownerID != "" {
		newLogger = newLogger.WithOwnerID(ownerID)
	}

	if source, ok := ctx.Value(SourceKey).(string); ok && source != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("source", source)),
		}
	}

	return newLogger
}

// WithRunID returns a logger with the extraction run ID
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("run_id", runID)),
	}
}

// WithOwnerID returns a logger with the owner ID
func (l *Logger) WithOwnerID(ownerID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("owner_id", ownerID)),
	}
}

// ExtractionResult logs the outcome of one document's pipeline run
func (l *Logger) ExtractionResult(source string, candidates, accepted int, durationMs float64) {
	l.Info("extraction_result",
		slog.String("source", source),
		slog.Int("candidates", candidates),
		slog.Int("accepted", accepted),
		slog.Float64("duration_ms", durationMs),
	)
}

// CandidateRejected logs a validator rejection at debug level
func (l *Logger) CandidateRejected(raw, layer string) {
	l.Debug("candidate_rejected",
		slog.String("raw", raw),
		slog.String("layer", layer),
	)
}

// ClassificationDropped logs a number dropped during canonicalization
func (l *Logger) ClassificationDropped(raw string, err error) {
	l.Warn("classification_dropped",
		slog.String("raw", raw),
		slog.String("error", err.Error()),
	)
}

// LookupEvent logs an external lookup outcome
func (l *Logger) LookupEvent(e164, status string, errMessage string) {
	if errMessage == "" {
		l.Info("lookup_event",
			slog.String("number", e164),
			slog.String("status", status),
		)
	} else {
		l.Warn("lookup_event",
			slog.String("number", e164),
			slog.String("status", status),
			slog.String("error", errMessage),
		)
	}
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
