package telemetry

import (
	"context"
	"log/slog"
)

// LogSink writes events as structured log lines.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink logging through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "telemetry")}
}

func (s *LogSink) RecordCall(ctx context.Context, event CallEvent) {
	attrs := []any{
		"preset", event.Preset,
		"model", event.Model,
		"latency_ms", event.Latency.Milliseconds(),
		"request_id", event.RequestID,
	}

	if event.Success {
		s.logger.InfoContext(ctx, "llm call succeeded", attrs...)

		return
	}

	attrs = append(attrs, "error_kind", event.Kind.String())
	s.logger.WarnContext(ctx, "llm call failed", attrs...)
}

func (s *LogSink) RecordMapping(ctx context.Context, event MappingEvent) {
	s.logger.InfoContext(ctx, "error mapped",
		"endpoint", event.Endpoint,
		"code", event.Code,
		"status", event.Status,
		"request_id", event.RequestID,
	)
}
