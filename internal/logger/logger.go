// Package logger implements the gxs Logger interface on log/slog, with
// OpenTelemetry trace correlation and structured fields for gxs error types.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"
	"go.opentelemetry.io/otel/trace"
)

// ParseLevel maps debug, info, warn/warning and error (any case) to a slog
// level. Anything else is an error and yields slog.LevelInfo.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level '%s'", s)
}

type slogLogger struct {
	l *slog.Logger
}

var _ gxslog.Logger = (*slogLogger)(nil)

// NewLogger returns a Logger writing text or JSON records (format "json",
// anything else is text) to w, or to os.Stderr when w is nil. An unknown
// level falls back to info.
func NewLogger(level, format string, w io.Writer) gxslog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: upperLevel}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &slogLogger{l: slog.New(NewOtelHandler(h))}
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() gxslog.Logger {
	return NewLogger("error", "text", io.Discard)
}

// upperLevel renders the level as DEBUG, INFO, WARN or ERROR.
func upperLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok {
		switch lvl {
		case slog.LevelDebug:
			a.Value = slog.StringValue("DEBUG")
		case slog.LevelInfo:
			a.Value = slog.StringValue("INFO")
		case slog.LevelWarn:
			a.Value = slog.StringValue("WARN")
		case slog.LevelError:
			a.Value = slog.StringValue("ERROR")
		default:
			a.Value = slog.StringValue(lvl.String())
		}
	}
	return a
}

// logf formats lazily: nothing is rendered for disabled levels.
func (s *slogLogger) logf(level slog.Level, format string, args []interface{}, attrs ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, fmt.Sprintf(format, args...), attrs...)
}

func (s *slogLogger) Debugf(format string, args ...interface{}) {
	s.logf(slog.LevelDebug, format, args)
}

func (s *slogLogger) Infof(format string, args ...interface{}) {
	s.logf(slog.LevelInfo, format, args)
}

func (s *slogLogger) Warnf(format string, args ...interface{}) {
	s.logf(slog.LevelWarn, format, args)
}

// Errorf logs at ERROR. A trailing error argument is also attached as
// structured fields; see errorAttrs.
func (s *slogLogger) Errorf(format string, args ...interface{}) {
	var attrs []any
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			attrs = errorAttrs(err)
		}
	}
	s.logf(slog.LevelError, format, args, attrs...)
}

// errorAttrs describes err. A DomainError adds the failing operation, the
// state fingerprint and the action; a NotFoundError adds the kind and name.
func errorAttrs(err error) []any {
	var (
		de *gxserrors.DomainError
		nf *gxserrors.NotFoundError
		ve *gxserrors.ValidationError
		ce *gxserrors.ConfigError
	)
	switch {
	case errors.As(err, &de):
		attrs := []any{
			slog.String("error_type", "DomainError"),
			slog.String("operation", de.Operation),
			slog.String("state", de.Fingerprint),
		}
		if de.Action != "" {
			attrs = append(attrs, slog.String("action", de.Action))
		}
		cause := err
		if de.Cause != nil {
			cause = de.Cause
		}
		return append(attrs, slog.String("error", cause.Error()))
	case errors.As(err, &nf):
		return []any{
			slog.String("error_type", "NotFoundError"),
			slog.String("kind", nf.Kind),
			slog.String("name", nf.Name),
			slog.String("error", err.Error()),
		}
	case errors.As(err, &ve):
		return []any{slog.String("error_type", "ValidationError"), slog.String("error", err.Error())}
	case errors.As(err, &ce):
		return []any{slog.String("error_type", "ConfigError"), slog.String("error", err.Error())}
	}
	return []any{slog.String("error", err.Error())}
}

func (s *slogLogger) Log(level slog.Level, msg string, args ...interface{}) {
	s.l.Log(context.Background(), level, msg, args...)
}

func (s *slogLogger) LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{}) {
	s.l.Log(ctx, level, msg, args...)
}

func (s *slogLogger) With(args ...interface{}) gxslog.Logger {
	return &slogLogger{l: s.l.With(args...)}
}

func (s *slogLogger) IsEnabled(level slog.Level) bool {
	return s.l.Enabled(context.Background(), level)
}

// OtelHandler wraps a slog.Handler and adds trace_id and span_id to records
// logged with a context that carries a valid span.
type OtelHandler struct {
	next slog.Handler
}

func NewOtelHandler(next slog.Handler) *OtelHandler {
	return &OtelHandler{next: next}
}

func (h *OtelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *OtelHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *OtelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewOtelHandler(h.next.WithAttrs(attrs))
}

func (h *OtelHandler) WithGroup(name string) slog.Handler {
	return NewOtelHandler(h.next.WithGroup(name))
}
