package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// extractTracingFields returns trace_id and span_id for the recording span in
// ctx, or nil when tracing is disabled or there is no valid span.
func (l *LoggerClient) extractTracingFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	spanContext := span.SpanContext()
	if !spanContext.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	}
}

// convertToZapFields converts the error and field maps into zap fields.
// Later maps override earlier ones only in the sense that both are written;
// JSON consumers keep the last key.
func (l *LoggerClient) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}
	return zapFields
}

func (l *LoggerClient) emit(ctx context.Context, level zapcore.Level, msg string, err error, fields []map[string]interface{}) {
	ce := l.Zap.Check(level, msg)
	if ce == nil {
		return
	}
	zapFields := l.convertToZapFields(err, fields...)
	zapFields = append(zapFields, l.extractTracingFields(ctx)...)
	ce.Write(zapFields...)
}

// Named returns a child logger whose entries carry scope=<scope>.
func (l *LoggerClient) Named(scope string) Logger {
	return &LoggerClient{
		Zap:            l.Zap.With(zap.String("scope", scope)),
		tracingEnabled: l.tracingEnabled,
	}
}

// Info logs general progress.
//
// Example:
//
//	log.Info("sample scored", nil, map[string]interface{}{"metric": "CPU", "value": 42.1})
func (l *LoggerClient) Info(msg string, err error, fields ...map[string]interface{}) {
	l.emit(context.Background(), zapcore.InfoLevel, msg, err, fields)
}

// Debug logs verbose diagnostics.
func (l *LoggerClient) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.emit(context.Background(), zapcore.DebugLevel, msg, err, fields)
}

// Warn logs a condition worth attention that did not fail the operation.
func (l *LoggerClient) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.emit(context.Background(), zapcore.WarnLevel, msg, err, fields)
}

// Error logs a failed operation.
func (l *LoggerClient) Error(msg string, err error, fields ...map[string]interface{}) {
	l.emit(context.Background(), zapcore.ErrorLevel, msg, err, fields)
}

// Fatal logs and exits the process with status 1.
func (l *LoggerClient) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.emit(context.Background(), zapcore.FatalLevel, msg, err, fields)
}

func (l *LoggerClient) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.emit(ctx, zapcore.InfoLevel, msg, err, fields)
}

func (l *LoggerClient) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.emit(ctx, zapcore.DebugLevel, msg, err, fields)
}

func (l *LoggerClient) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.emit(ctx, zapcore.WarnLevel, msg, err, fields)
}

func (l *LoggerClient) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.emit(ctx, zapcore.ErrorLevel, msg, err, fields)
}
