// Package logger is the structured logging layer of the gutcheck API.
//
// Call sites log through Logger with typed Fields. A Logger bound to a
// request context (see Ctx) stamps every line with the request ID and the
// device the request is scoped to, so trend and ingestion logs for one
// device can be followed across middleware, services and storage.
package logger

import (
	"context"
	"io"
	"strings"
	"time"
)

// Level represents log severity levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel converts a config value to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Keys shared by every component that logs about observations.
const (
	KeyRequestID     = "request_id"
	KeyDeviceID      = "device_id"
	KeyObservationID = "observation_id"
	KeyDays          = "days"
)

// Field is one structured key-value pair
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration values are written as fractional milliseconds under key_ms.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// DeviceID logs the device a query or observation belongs to. An empty ID
// is an unfiltered query and is logged as "all".
func DeviceID(id string) Field {
	if id == "" {
		id = "all"
	}
	return Field{Key: KeyDeviceID, Value: id}
}

func ObservationID(id string) Field {
	return Field{Key: KeyObservationID, Value: id}
}

// Days logs the length of a trend window
func Days(n int) Field {
	return Field{Key: KeyDays, Value: n}
}

// Logger is the logging interface implemented by the slog backend.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a Logger that adds fields to every entry
	With(fields ...Field) Logger
	// WithContext returns a Logger bound to ctx; its entries carry the
	// request and device IDs stored there
	WithContext(ctx context.Context) Logger

	Enabled(level Level) bool
}

// Config holds logging configuration
type Config struct {
	Level     Level
	Format    string // "json" (default) or "text"
	AddSource bool
	// Output defaults to stdout
	Output io.Writer
	// Service names the process in every entry; defaults to gutcheck-api
	Service string
}

var defaultLogger Logger

// SetDefault sets the process-wide logger returned by Default
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the process-wide logger, an info-level JSON logger until
// SetDefault is called.
func Default() Logger {
	if defaultLogger == nil {
		defaultLogger = NewSlogLogger(Config{Level: LevelInfo})
	}
	return defaultLogger
}
