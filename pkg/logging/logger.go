package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// LogLevel represents logging levels
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// ParseLevel converts a LOG_LEVEL value into a LogLevel, falling back to info.
func ParseLevel(value string) LogLevel {
	switch LogLevel(value) {
	case LevelDebug, LevelWarn, LevelError:
		return LogLevel(value)
	default:
		return LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level       LogLevel
	ServiceName string
	Environment string
	Version     string
	Output      io.Writer
	AddSource   bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		Level:       LevelInfo,
		ServiceName: serviceName,
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("VERSION", "unknown"),
		Output:      os.Stdout,
	}
}

// Logger wraps slog.Logger with dispatch-specific helpers
type Logger struct {
	*slog.Logger
	serviceName string
}

// New creates a new Logger instance
func New(config *Config) *Logger {
	level := slog.LevelInfo
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}

	output := config.Output
	if output == nil {
		output = os.Stdout
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level:     level,
		AddSource: config.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler).With(
			"service", config.ServiceName,
			"environment", config.Environment,
			"version", config.Version,
		),
		serviceName: config.ServiceName,
	}
}

// ServiceName returns the service name the logger was built for
func (l *Logger) ServiceName() string {
	return l.serviceName
}

func (l *Logger) with(attrs ...any) *Logger {
	return &Logger{Logger: l.Logger.With(attrs...), serviceName: l.serviceName}
}

// WithContext creates a logger carrying the request and correlation IDs found in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	attrs := extractContextAttrs(ctx)
	if len(attrs) == 0 {
		return l
	}
	return l.with(attrs...)
}

// WithError adds an error to the logger
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with("error", err.Error())
}

// WithComponent adds a component name to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// BusinessEvent describes a domain-level occurrence worth an audit trail
type BusinessEvent struct {
	EventType  string
	EntityType string
	EntityID   string
	Action     string
	RelatedIDs map[string]string
	Data       map[string]any
}

// LogBusinessEvent logs a business event with structured data
func (l *Logger) LogBusinessEvent(ctx context.Context, event BusinessEvent) {
	attrs := []any{
		"eventType", event.EventType,
		"entityType", event.EntityType,
		"entityId", event.EntityID,
		"action", event.Action,
	}
	for k, v := range event.RelatedIDs {
		attrs = append(attrs, k, v)
	}
	for k, v := range event.Data {
		attrs = append(attrs, k, v)
	}

	l.WithContext(ctx).Info("Business event", attrs...)
}

// Audit logs an operator action against a resource
func (l *Logger) Audit(ctx context.Context, action, resource, resourceID, operator string, details map[string]any) {
	attrs := []any{
		"auditAction", action,
		"resource", resource,
		"resourceId", resourceID,
		"operator", operator,
	}
	for k, v := range details {
		attrs = append(attrs, k, v)
	}

	l.WithContext(ctx).Info("Audit event", attrs...)
}

// RemoteCall logs an outbound call to the inventory/release service.
// status is zero when the call never produced a response.
func (l *Logger) RemoteCall(ctx context.Context, operation, endpoint string, status int, duration time.Duration, err error) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}

	attrs := []any{
		"operation", operation,
		"endpoint", endpoint,
		"status", status,
		"durationMs", duration.Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}

	l.WithContext(ctx).Log(ctx, level, "Remote call", attrs...)
}

// SubmissionTransition logs a state change of the submission workflow
func (l *Logger) SubmissionTransition(ctx context.Context, from, to, message string) {
	level := slog.LevelInfo
	if to == "error" {
		level = slog.LevelError
	}

	l.WithContext(ctx).Log(ctx, level, "Submission state changed",
		"from", from,
		"to", to,
		"message", message,
	)
}

// KafkaPublish logs a Kafka publish attempt
func (l *Logger) KafkaPublish(ctx context.Context, topic, eventType string, success bool, duration time.Duration) {
	level := slog.LevelDebug
	if !success {
		level = slog.LevelWarn
	}

	l.WithContext(ctx).Log(ctx, level, "Kafka publish",
		"topic", topic,
		"eventType", eventType,
		"success", success,
		"durationMs", duration.Milliseconds(),
	)
}

// WorkflowStart logs a Temporal workflow start
func (l *Logger) WorkflowStart(ctx context.Context, workflowType, workflowID string) {
	l.WithContext(ctx).Info("Workflow started",
		"workflowType", workflowType,
		"workflowId", workflowID,
	)
}

// Panic logs a panic with stack trace
func (l *Logger) Panic(ctx context.Context, recovered any) {
	stack := make([]byte, 4096)
	n := runtime.Stack(stack, false)

	l.WithContext(ctx).Error("Panic recovered",
		"panic", recovered,
		"stack", string(stack[:n]),
	)
}

// SetDefault sets this logger as the default slog logger
func (l *Logger) SetDefault() {
	slog.SetDefault(l.Logger)
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type contextKey string

const (
	RequestIDKey     contextKey = "requestId"
	CorrelationIDKey contextKey = "correlationId"
	TraceIDKey       contextKey = "traceId"
)

func extractContextAttrs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var attrs []any
	for _, key := range []contextKey{RequestIDKey, CorrelationIDKey, TraceIDKey} {
		if v := ctx.Value(key); v != nil {
			attrs = append(attrs, string(key), v)
		}
	}
	return attrs
}

// ContextWithRequestID adds request ID to context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ContextWithCorrelationID adds correlation ID to context
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// ContextWithTraceID adds trace ID to context
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
