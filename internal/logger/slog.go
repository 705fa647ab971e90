package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

const defaultService = "gutcheck-api"

type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

// NewSlogLogger creates a Logger writing through log/slog
func NewSlogLogger(cfg Config) Logger {
	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	service := cfg.Service
	if service == "" {
		service = defaultService
	}

	opts := &slog.HandlerOptions{
		Level:       toSlogLevel(cfg.Level),
		AddSource:   cfg.AddSource,
		ReplaceAttr: millisecondDurations,
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return &slogLogger{
		logger: slog.New(scopeHandler{handler}).With("service", service),
		ctx:    context.Background(),
	}
}

func toSlogLevel(l Level) slog.Level {
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

// millisecondDurations rewrites latency=1.5ms style durations as latency_ms=1.5
func millisecondDurations(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindDuration {
		return a
	}
	return slog.Float64(a.Key+"_ms", float64(a.Value.Duration())/float64(time.Millisecond))
}

// scopeHandler adds the request and device IDs of the logging context to
// each record, unless the call site already logged them.
type scopeHandler struct {
	slog.Handler
}

func (h scopeHandler) Handle(ctx context.Context, r slog.Record) error {
	var hasRequest, hasDevice bool
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case KeyRequestID:
			hasRequest = true
		case KeyDeviceID:
			hasDevice = true
		}
		return true
	})

	if id := RequestIDFromContext(ctx); id != "" && !hasRequest {
		r.AddAttrs(slog.String(KeyRequestID, id))
	}
	if id := DeviceIDFromContext(ctx); id != "" && !hasDevice {
		r.AddAttrs(slog.String(KeyDeviceID, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h scopeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return scopeHandler{h.Handler.WithAttrs(attrs)}
}

func (h scopeHandler) WithGroup(name string) slog.Handler {
	return scopeHandler{h.Handler.WithGroup(name)}
}

func (l *slogLogger) log(level slog.Level, msg string, fields []Field) {
	if !l.logger.Enabled(l.ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	l.logger.LogAttrs(l.ctx, level, msg, attrs...)
}

func (l *slogLogger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields) }
func (l *slogLogger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields) }
func (l *slogLogger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields) }
func (l *slogLogger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields) }

func (l *slogLogger) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{logger: l.logger, ctx: ctx}
}

func (l *slogLogger) Enabled(level Level) bool {
	return l.logger.Enabled(l.ctx, toSlogLevel(level))
}
