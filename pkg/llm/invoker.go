package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/otelhelper"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const op = "llm.Invoke"

// CallSpec describes one model call. Stages build a fresh value per call.
type CallSpec struct {
	Task      string
	Prompt    string
	Contract  *Contract
	Preset    Preset
	Timeout   time.Duration // zero means the preset default
	JSONMode  bool
	RequestID string
}

// Invoker issues model calls. It performs no retries.
type Invoker struct {
	provider Provider
	presets  map[Preset]Params
	sink     telemetry.Sink
	logger   *slog.Logger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithSink registers the observability sink. Without one, events are dropped.
func WithSink(sink telemetry.Sink) Option {
	return func(inv *Invoker) {
		inv.sink = sink
	}
}

// WithLogger sets the invoker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// WithPresets overrides entries of the preset table.
func WithPresets(presets map[Preset]Params) Option {
	return func(inv *Invoker) {
		for name, params := range presets {
			inv.presets[name] = params
		}
	}
}

// NewInvoker creates an invoker. A nil provider is allowed: every call then
// fails with ConfigMissing.
func NewInvoker(provider Provider, opts ...Option) *Invoker {
	inv := &Invoker{
		provider: provider,
		presets:  Presets(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(inv)
	}

	inv.logger = inv.logger.With("module", "llm_invoker")

	return inv
}

// ProviderName returns the configured provider's name, or "" if none.
func (inv *Invoker) ProviderName() string {
	if inv.provider == nil {
		return ""
	}

	return inv.provider.Name()
}

// Invoke performs one model call and decodes the validated payload into T.
// On failure the returned error is always a *failure.Error and the value is
// the zero T.
func Invoke[T any](ctx context.Context, inv *Invoker, spec CallSpec) (T, error) {
	var zero T

	start := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, "llm.invoke",
		attribute.String(otelhelper.StageKey, spec.Task),
		attribute.String(otelhelper.PresetKey, string(spec.Preset)),
		attribute.String(otelhelper.RequestIDKey, spec.RequestID),
	)
	defer span.End()

	resp, err := inv.complete(ctx, spec)
	if err == nil {
		var value T

		value, err = decode[T](resp.Text, spec.Contract)
		if err == nil {
			span.SetAttributes(attribute.String(otelhelper.ModelKey, resp.Model))
			inv.record(ctx, spec, resp.Model, time.Since(start), nil)

			return value, nil
		}
	}

	inv.record(ctx, spec, resp.Model, time.Since(start), err)
	otelhelper.SetError(span, err)

	return zero, err
}

type completion struct {
	resp Response
	err  error
}

// complete runs the provider call under a hard deadline.
func (inv *Invoker) complete(ctx context.Context, spec CallSpec) (Response, error) {
	if inv.provider == nil {
		return Response{}, failure.New(failure.ConfigMissing, op, "no model provider is configured")
	}

	params, ok := inv.presets[spec.Preset]
	if !ok {
		return Response{}, failure.New(failure.Internal, op, "unknown preset "+string(spec.Preset))
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = params.Timeout
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := Request{
		Task:     spec.Task,
		Prompt:   spec.Prompt,
		Preset:   spec.Preset,
		Params:   params,
		JSONMode: spec.JSONMode,
	}

	// Buffered so an abandoned provider goroutine can still finish.
	done := make(chan completion, 1)

	go func() {
		resp, err := inv.provider.Complete(callCtx, req)
		done <- completion{resp: resp, err: err}
	}()

	select {
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return Response{}, failure.New(failure.Timeout, op, "model call exceeded "+timeout.String())
		}

		return Response{}, failure.Wrap(failure.Internal, op, callCtx.Err())
	case result := <-done:
		if result.err != nil {
			return result.resp, classifyProviderError(callCtx, result.err)
		}

		return result.resp, nil
	}
}

// classifyProviderError reports Timeout only when the call's own deadline has
// fired. Transport timeouts inside the budget are upstream faults, and
// nothing a provider returns is ever Internal.
func classifyProviderError(callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return failure.Wrap(failure.Timeout, op, err)
	}

	return failure.Wrap(failure.UpstreamFailure, op, err)
}

func decode[T any](text string, contract *Contract) (T, error) {
	var value T

	document, err := extractJSON(text)
	if err != nil {
		return value, err
	}

	if contract != nil {
		violations, checkErr := contract.Check(document)
		if checkErr != nil {
			return value, failure.Wrap(failure.InvalidPayload, op, checkErr)
		}

		if len(violations) > 0 {
			return value, &failure.Error{
				Kind:       failure.OutputContractViolation,
				Op:         op,
				Message:    "model output failed contract " + contract.Name(),
				Violations: violations,
			}
		}
	}

	err = json.Unmarshal(document, &value)
	if err != nil {
		return value, &failure.Error{
			Kind:    failure.OutputContractViolation,
			Op:      op,
			Message: "model output does not match the expected shape",
			Err:     err,
		}
	}

	return value, nil
}

func (inv *Invoker) record(ctx context.Context, spec CallSpec, model string, latency time.Duration, err error) {
	event := telemetry.CallEvent{
		Preset:    string(spec.Preset),
		Model:     model,
		Latency:   latency,
		Success:   err == nil,
		RequestID: spec.RequestID,
	}

	if err != nil {
		event.Kind = failure.KindOf(err)
		inv.logger.DebugContext(ctx, "model call failed", "preset", spec.Preset, "error", err)
	}

	if inv.sink == nil {
		return
	}

	inv.sink.RecordCall(ctx, event)
}
