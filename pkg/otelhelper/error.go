package otelhelper

import (
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks span as failed and tags it with the failure kind. Only the
// error's own message is recorded; provider payloads never reach the span.
func SetError(span trace.Span, err error) {
	kind := attribute.String(ErrorKindKey, failure.KindOf(err).String())

	span.RecordError(err, trace.WithAttributes(kind))
	span.SetAttributes(kind)
	span.SetStatus(codes.Error, failure.KindOf(err).String())
}
