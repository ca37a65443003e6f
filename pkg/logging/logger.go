// Package logging is the museum's structured logger on top of log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger is the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger
}

// Field is a single key/value log attribute.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

func Strings(key string, value []string) Field { return Field{Key: key, Value: value} }

func Err(err error) Field { return Field{Key: "error", Value: err} }

func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// SlogLogger implements Logger using slog.
type SlogLogger struct {
	logger *slog.Logger
	ctx    context.Context
}

type options struct {
	level     slog.Level
	output    io.Writer
	json      bool
	addSource bool
}

// Option configures NewSlogLogger.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithJSON switches to the JSON handler.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithSource adds source locations.
func WithSource() Option {
	return func(o *options) { o.addSource = true }
}

// NewSlogLogger creates a logger writing text to stderr at info level
// unless configured otherwise.
func NewSlogLogger(opts ...Option) *SlogLogger {
	o := &options{level: slog.LevelInfo, output: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	ho := &slog.HandlerOptions{Level: o.level, AddSource: o.addSource}
	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(o.output, ho)
	} else {
		handler = slog.NewTextHandler(o.output, ho)
	}
	return &SlogLogger{logger: slog.New(handler), ctx: context.Background()}
}

// New builds a logger from textual settings as found in configuration
// files: level is one of debug, info, warn, error and format is text or json.
func New(w io.Writer, level, format string) *SlogLogger {
	opts := []Option{WithOutput(w), WithLevel(ParseLevel(level))}
	if strings.EqualFold(format, "json") {
		opts = append(opts, WithJSON())
	}
	return NewSlogLogger(opts...)
}

// ParseLevel maps a level name to a slog level. Unknown names yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func toAttrs(fields []Field) []any {
	attrs := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		attrs = append(attrs, f.Key, f.Value)
	}
	return attrs
}

func (l *SlogLogger) Debug(msg string, fields ...Field) {
	l.logger.DebugContext(l.ctx, msg, toAttrs(fields)...)
}

func (l *SlogLogger) Info(msg string, fields ...Field) {
	l.logger.InfoContext(l.ctx, msg, toAttrs(fields)...)
}

func (l *SlogLogger) Warn(msg string, fields ...Field) {
	l.logger.WarnContext(l.ctx, msg, toAttrs(fields)...)
}

func (l *SlogLogger) Error(msg string, fields ...Field) {
	l.logger.ErrorContext(l.ctx, msg, toAttrs(fields)...)
}

// With returns a logger carrying additional fields.
func (l *SlogLogger) With(fields ...Field) Logger {
	return &SlogLogger{logger: l.logger.With(toAttrs(fields)...), ctx: l.ctx}
}

// WithContext returns a logger bound to ctx.
func (l *SlogLogger) WithContext(ctx context.Context) Logger {
	return &SlogLogger{logger: l.logger, ctx: ctx}
}

// Slog exposes the underlying slog logger.
func (l *SlogLogger) Slog() *slog.Logger { return l.logger }

type loggerContextKey struct{}

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext retrieves a logger from context, or nil.
func LoggerFromContext(ctx context.Context) Logger {
	logger, _ := ctx.Value(loggerContextKey{}).(Logger)
	return logger
}

// L returns the context logger or DefaultLogger.
func L(ctx context.Context) Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return DefaultLogger
}

// DefaultLogger is used when no logger travels in the context.
var DefaultLogger Logger = NewSlogLogger()

// SetDefault replaces DefaultLogger.
func SetDefault(logger Logger) {
	DefaultLogger = logger
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)                 {}
func (NopLogger) Info(string, ...Field)                  {}
func (NopLogger) Warn(string, ...Field)                  {}
func (NopLogger) Error(string, ...Field)                 {}
func (l NopLogger) With(...Field) Logger                 { return l }
func (l NopLogger) WithContext(context.Context) Logger { return l }
