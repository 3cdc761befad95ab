package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	base *slog.Logger
}

// New wraps h. A nil handler discards every record.
func New(h slog.Handler) *SlogLogger {
	if h == nil {
		h = slog.DiscardHandler
	}
	return &SlogLogger{base: slog.New(h)}
}

// NewJSON writes one JSON object per record to w, dropping records below level.
func NewJSON(w io.Writer, level slog.Leveler) *SlogLogger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func Discard() *SlogLogger {
	return New(nil)
}

// ParseLevel accepts debug, info, warn or error in any case. The empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.base.Log(ctx, slog.LevelDebug, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.base.Log(ctx, slog.LevelInfo, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.base.Log(ctx, slog.LevelWarn, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.base.Log(ctx, slog.LevelError, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{base: s.base.With(args...)}
}
