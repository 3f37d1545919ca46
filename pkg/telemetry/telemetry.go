// Package telemetry provides the observability sinks fed by the invoker and
// the response mapper.
package telemetry

import (
	"context"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
)

// CallEvent describes one model invocation.
type CallEvent struct {
	Preset    string
	Model     string
	Latency   time.Duration
	Success   bool
	Kind      failure.Kind // meaningful only when Success is false
	RequestID string
}

// MappingEvent describes one error mapped to a protocol response.
type MappingEvent struct {
	Endpoint  string
	Code      string
	Status    int
	RequestID string
}

// Sink receives observability events. Implementations must be safe for
// concurrent use.
type Sink interface {
	RecordCall(ctx context.Context, event CallEvent)
	RecordMapping(ctx context.Context, event MappingEvent)
}

type multiSink []Sink

// Multi fans events out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	filtered := make(multiSink, 0, len(sinks))

	for _, sink := range sinks {
		if sink != nil {
			filtered = append(filtered, sink)
		}
	}

	return filtered
}

func (m multiSink) RecordCall(ctx context.Context, event CallEvent) {
	for _, sink := range m {
		sink.RecordCall(ctx, event)
	}
}

func (m multiSink) RecordMapping(ctx context.Context, event MappingEvent) {
	for _, sink := range m {
		sink.RecordMapping(ctx, event)
	}
}
