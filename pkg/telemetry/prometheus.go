package telemetry

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusSink records events as Prometheus metrics.
type PrometheusSink struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	mappingsTotal *prometheus.CounterVec
}

// NewPrometheusSink registers the sink's collectors with reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	factory := promauto.With(reg)

	return &PrometheusSink{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_llm_calls_total",
				Help: "Total number of LLM calls by preset, status and error kind",
			},
			[]string{"preset", "status", "error_kind"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seo_llm_call_duration_seconds",
				Help:    "Duration of LLM calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 45},
			},
			[]string{"preset"},
		),
		mappingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_error_responses_total",
				Help: "Total number of mapped error responses by endpoint, code and status",
			},
			[]string{"endpoint", "code", "status"},
		),
	}
}

func (p *PrometheusSink) RecordCall(_ context.Context, event CallEvent) {
	status := "success"
	errorKind := ""

	if !event.Success {
		status = "error"
		errorKind = event.Kind.String()
	}

	p.callsTotal.WithLabelValues(event.Preset, status, errorKind).Inc()
	p.callDuration.WithLabelValues(event.Preset).Observe(event.Latency.Seconds())
}

func (p *PrometheusSink) RecordMapping(_ context.Context, event MappingEvent) {
	p.mappingsTotal.WithLabelValues(event.Endpoint, event.Code, strconv.Itoa(event.Status)).Inc()
}
