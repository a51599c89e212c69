package log

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// zerologAdapter wraps a zerolog.Logger to implement Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a Logger writing to stderr.
// With pretty set, output is human-readable console lines instead of JSON.
func NewZerologAdapter(level zerolog.Level, pretty bool) Logger {
	return NewZerologWriter(os.Stderr, level, pretty)
}

// NewZerologWriter creates a Logger writing to w.
func NewZerologWriter(w io.Writer, level zerolog.Level, pretty bool) Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zlog := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
	return &zerologAdapter{logger: zlog}
}

// ParseLevel parses a level name, falling back to info for unknown input.
func ParseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, err
	}
	return level, nil
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zerologAdapter{logger: zerolog.Nop()}
}

// addTraceInfo adds trace_id and span_id when ctx carries a valid span.
func addTraceInfo(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if ctx == nil {
		return event
	}
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		event = event.Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}
	return event
}

func emit(ctx context.Context, event *zerolog.Event, msg string, fields []Fields) {
	event = addTraceInfo(ctx, event)
	for _, f := range fields {
		event = event.Fields(map[string]interface{}(f))
	}
	event.Msg(msg)
}

func (z *zerologAdapter) Debug(ctx context.Context, msg string, fields ...Fields) {
	emit(ctx, z.logger.Debug(), msg, fields)
}

func (z *zerologAdapter) Info(ctx context.Context, msg string, fields ...Fields) {
	emit(ctx, z.logger.Info(), msg, fields)
}

func (z *zerologAdapter) Warn(ctx context.Context, msg string, fields ...Fields) {
	emit(ctx, z.logger.Warn(), msg, fields)
}

func (z *zerologAdapter) Error(ctx context.Context, msg string, err error, fields ...Fields) {
	emit(ctx, z.logger.Error().Err(err), msg, fields)
}

func (z *zerologAdapter) Fatal(ctx context.Context, msg string, err error, fields ...Fields) {
	emit(ctx, z.logger.Fatal().Err(err), msg, fields)
}

// With returns a child logger. Trace ids are added per call, not here, so they stay current.
func (z *zerologAdapter) With(fields Fields) Logger {
	return &zerologAdapter{logger: z.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}
