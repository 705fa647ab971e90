package logger

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	deviceIDKey
	loggerKey
)

// WithRequestID stores the correlation ID assigned by the request ID middleware
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithDeviceID scopes the request to one device. "all" and empty IDs mean
// the request spans every device and are not stored.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	if deviceID == "" || deviceID == "all" {
		return ctx
	}
	return context.WithValue(ctx, deviceIDKey, deviceID)
}

func DeviceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}

// WithLogger attaches the logger Ctx should use for this request
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Ctx returns the request's logger bound to ctx, falling back to Default.
func Ctx(ctx context.Context) Logger {
	l, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		l = Default()
	}
	return l.WithContext(ctx)
}
