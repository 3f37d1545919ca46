package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/events"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/stages"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/telemetry"
)

type APIHandlers struct {
	pipeline  *stages.Pipeline
	sink      telemetry.Sink
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

// NewAPIHandlers creates the stage handlers. sink and publisher may be nil.
func NewAPIHandlers(
	pipeline *stages.Pipeline,
	sink telemetry.Sink,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		pipeline:  pipeline,
		sink:      sink,
		publisher: publisher,
		logger:    logger.With("module", "web"),
	}
}

func (h *APIHandlers) AnalyzeIntent(c fiber.Ctx) error {
	return handle(h, c, "/api/intent", h.pipeline.AnalyzeIntent)
}

func (h *APIHandlers) ReviewOpportunity(c fiber.Ctx) error {
	return handle(h, c, "/api/opportunity/approve", h.pipeline.ReviewOpportunity)
}

func (h *APIHandlers) ProposeTemplates(c fiber.Ctx) error {
	return handle(h, c, "/api/templates", h.pipeline.ProposeTemplates)
}

func (h *APIHandlers) ReviewTemplate(c fiber.Ctx) error {
	return handle(h, c, "/api/templates/approve", h.pipeline.ReviewTemplate)
}

func (h *APIHandlers) GenerateContent(c fiber.Ctx) error {
	return handle(h, c, "/api/content", h.pipeline.GenerateContent)
}

func (h *APIHandlers) ReviewContent(c fiber.Ctx) error {
	return handle(h, c, "/api/content/approve", h.pipeline.ReviewContent)
}

func (h *APIHandlers) Publish(c fiber.Ctx) error {
	return handle(h, c, "/api/publish", h.pipeline.Publish)
}

func (h *APIHandlers) ListResults(c fiber.Ctx) error {
	summaries, err := h.pipeline.ListResults(requestContext(c))
	if err != nil {
		return h.respondError(c, "/api/results", err)
	}

	return h.respond(c, summaries)
}

func (h *APIHandlers) GetResult(c fiber.Ctx) error {
	bundle, err := h.pipeline.GetResult(requestContext(c), c.Params("id"))
	if err != nil {
		return h.respondError(c, "/api/results/:id", err)
	}

	if bundle == nil {
		h.record(c, "/api/results/:id", failure.CodeNotFound, fiber.StatusNotFound)

		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:     "Result not found",
			Code:      failure.CodeNotFound,
			RequestID: requestID(c),
		})
	}

	return h.respond(c, bundle)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "SEO decision engine is healthy"
	httpStatus := http.StatusOK
	storeCheck := "ok"

	if err := h.pipeline.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "SEO decision engine is unhealthy"
		httpStatus = http.StatusServiceUnavailable
		storeCheck = err.Error()
	}

	return c.Status(httpStatus).JSON(HealthResponse{
		Status:   status,
		Message:  message,
		Checkers: map[string]string{"store": storeCheck},
	})
}

// handle binds the JSON body, runs one stage and writes its envelope.
func handle[Req, Res any](h *APIHandlers, c fiber.Ctx, endpoint string,
	run func(context.Context, Req) (Res, error),
) error {
	var req Req

	if err := c.Bind().JSON(&req); err != nil {
		return h.respondError(c, endpoint, &failure.Error{
			Kind:    failure.CallerValidation,
			Op:      "web.Bind",
			Message: "invalid JSON body",
			Err:     err,
		})
	}

	res, err := run(requestContext(c), req)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}

	return h.respond(c, res)
}

func (h *APIHandlers) respond(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{OK: true, Data: data, RequestID: requestID(c)})
}

// respondError is the single exit for stage failures.
func (h *APIHandlers) respondError(c fiber.Ctx, endpoint string, err error) error {
	ctx := requestContext(c)
	mapping := MapError(err)
	logger := log.WithRequestID(ctx, h.logger).With("endpoint", endpoint, "code", mapping.Code)

	switch mapping.Kind {
	case failure.CallerValidation, failure.AdmissionDenied:
		logger.DebugContext(ctx, "request rejected", "error", err)
	case failure.Timeout, failure.InvalidPayload, failure.OutputContractViolation, failure.UpstreamFailure:
		logger.WarnContext(ctx, "model call failed", "error", err)
	case failure.ConfigMissing, failure.Internal:
		logger.ErrorContext(ctx, "stage failed", "error", err)
	}

	h.record(c, endpoint, mapping.Code, mapping.Status)
	h.announceFailure(ctx, endpoint, mapping)

	return c.Status(mapping.Status).JSON(ErrorResponse{
		Error:     mapping.Message,
		Code:      mapping.Code,
		RequestID: requestID(c),
	})
}

func (h *APIHandlers) record(c fiber.Ctx, endpoint, code string, status int) {
	if h.sink == nil {
		return
	}

	h.sink.RecordMapping(c.Context(), telemetry.MappingEvent{
		Endpoint:  endpoint,
		Code:      code,
		Status:    status,
		RequestID: requestID(c),
	})
}

func (h *APIHandlers) announceFailure(ctx context.Context, endpoint string, mapping Mapping) {
	if h.publisher == nil || mapping.Kind == failure.CallerValidation || mapping.Kind == failure.AdmissionDenied {
		return
	}

	event := events.StageFailed{
		BaseEvent: events.NewBaseEvent(events.StageFailedEvent, log.RequestIDFrom(ctx)),
		Endpoint:  endpoint,
		Code:      mapping.Code,
		Status:    mapping.Status,
	}

	if err := h.publisher.Publish(ctx, endpoint, event); err != nil {
		h.logger.WarnContext(ctx, "failed to publish stage failure", "endpoint", endpoint, "error", err)
	}
}
