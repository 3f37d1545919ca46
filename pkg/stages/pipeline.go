// Package stages implements the pipeline stage operations: input validation,
// prompt rendering, the model call with its output contract, and publishing.
package stages

import (
	"context"
	"log/slog"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/events"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/otelhelper"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/template"
	"go.opentelemetry.io/otel/attribute"
)

// Pipeline runs stage operations. It holds no per-run state.
type Pipeline struct {
	invoker   *llm.Invoker
	store     persistence.ResultStore
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher emits a BundlePublished event after each publish.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(p *Pipeline) {
		p.publisher = publisher
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock replaces time.Now for publish timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline over an invoker and a result store.
func NewPipeline(invoker *llm.Invoker, store persistence.ResultStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		invoker: invoker,
		store:   store,
		logger:  slog.Default(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With("module", "stages")

	return p
}

// AnalyzeIntent classifies the keyword and proposes opportunities.
func (p *Pipeline) AnalyzeIntent(ctx context.Context, req models.IntentRequest) (models.IntentAnalysis, error) {
	const op = "stages.AnalyzeIntent"

	err := validateInput(op, req)
	if err != nil {
		return models.IntentAnalysis{}, err
	}

	analysis, err := call[models.IntentAnalysis](ctx, p, op, models.TaskIntentAnalysis, intentPrompt, req,
		IntentContract, llm.PresetAnalysis)
	if err != nil {
		return models.IntentAnalysis{}, err
	}

	analysis.Keyword = req.Keyword

	return analysis, nil
}

// ReviewOpportunity is the opportunity gate.
func (p *Pipeline) ReviewOpportunity(ctx context.Context, req models.OpportunityApprovalRequest) (models.ApprovalResult, error) {
	const op = "stages.ReviewOpportunity"

	err := validateInput(op, req)
	if err != nil {
		return models.ApprovalResult{}, err
	}

	err = checkIndex(op, "selected_index", req.SelectedIndex, len(req.Analysis.Opportunities))
	if err != nil {
		return models.ApprovalResult{}, err
	}

	data := struct {
		Keyword     string
		Analysis    models.IntentAnalysis
		Opportunity models.Opportunity
	}{req.Keyword, req.Analysis, req.Analysis.Opportunities[req.SelectedIndex]}

	return call[models.ApprovalResult](ctx, p, op, models.TaskOpportunityValidation, opportunityReviewPrompt, data,
		ApprovalContract, llm.PresetValidation)
}

// ProposeTemplates proposes page structures for the selected opportunity.
func (p *Pipeline) ProposeTemplates(ctx context.Context, req models.TemplateRequest) (models.TemplateProposal, error) {
	const op = "stages.ProposeTemplates"

	err := validateInput(op, req)
	if err != nil {
		return models.TemplateProposal{}, err
	}

	err = checkIndex(op, "selected_index", req.SelectedIndex, len(req.Analysis.Opportunities))
	if err != nil {
		return models.TemplateProposal{}, err
	}

	data := struct {
		Keyword      string
		Location     string
		BusinessType string
		Opportunity  models.Opportunity
	}{req.Keyword, req.Location, req.BusinessType, req.Analysis.Opportunities[req.SelectedIndex]}

	return call[models.TemplateProposal](ctx, p, op, models.TaskTemplateProposal, templatePrompt, data,
		TemplateContract, llm.PresetAnalysis)
}

// ReviewTemplate is the template gate.
func (p *Pipeline) ReviewTemplate(ctx context.Context, req models.TemplateApprovalRequest) (models.ApprovalResult, error) {
	const op = "stages.ReviewTemplate"

	err := validateInput(op, req)
	if err != nil {
		return models.ApprovalResult{}, err
	}

	err = checkIndex(op, "selected_index", req.SelectedIndex, len(req.Proposal.Templates))
	if err != nil {
		return models.ApprovalResult{}, err
	}

	data := struct {
		Keyword     string
		Opportunity models.Opportunity
		Template    models.Template
	}{req.Keyword, req.Opportunity, req.Proposal.Templates[req.SelectedIndex]}

	return call[models.ApprovalResult](ctx, p, op, models.TaskTemplateValidation, templateReviewPrompt, data,
		ApprovalContract, llm.PresetValidation)
}

// GenerateContent writes a draft. A non-empty ImprovementHint asks the model
// to address the previous rejection.
func (p *Pipeline) GenerateContent(ctx context.Context, req models.ContentRequest) (models.ContentDraft, error) {
	const op = "stages.GenerateContent"

	err := validateInput(op, req)
	if err != nil {
		return models.ContentDraft{}, err
	}

	draft, err := call[models.ContentDraft](ctx, p, op, models.TaskContentGeneration, contentPrompt, req,
		ContentContract, llm.PresetGeneration)
	if err != nil {
		return models.ContentDraft{}, err
	}

	draft.Model = p.invoker.ProviderName()

	return draft, nil
}

// ReviewContent is the content gate.
func (p *Pipeline) ReviewContent(ctx context.Context, req models.ContentApprovalRequest) (models.ApprovalResult, error) {
	const op = "stages.ReviewContent"

	err := validateInput(op, req)
	if err != nil {
		return models.ApprovalResult{}, err
	}

	return call[models.ApprovalResult](ctx, p, op, models.TaskContentValidation, contentReviewPrompt, req,
		ApprovalContract, llm.PresetValidation)
}

// Publish snapshots the accepted artifacts into a bundle, stores it and
// announces it. The draft must carry an approving verdict.
func (p *Pipeline) Publish(ctx context.Context, req models.PublishRequest) (*models.ResultBundle, error) {
	const op = "stages.Publish"

	err := CallerError(op, models.ValidatePublish(&req))
	if err != nil {
		return nil, err
	}

	if p.store == nil {
		return nil, failure.New(failure.ConfigMissing, op, "no result store is configured")
	}

	id := models.NewBundleID(req.Draft.Slug, req.Draft.Title, req.Keyword)
	bundle := models.NewBundle(id, &req, p.now())

	ctx, span := otelhelper.StartSpan(ctx, "stages.publish",
		attribute.String(otelhelper.BundleIDKey, id),
		attribute.String(otelhelper.RequestIDKey, log.RequestIDFrom(ctx)),
	)
	defer span.End()

	err = p.store.Save(ctx, bundle)
	if err != nil {
		err = failure.Wrap(failure.Internal, op, err)
		otelhelper.SetError(span, err)

		return nil, err
	}

	logger := log.WithRequestID(ctx, p.logger)
	logger.InfoContext(ctx, "bundle published", "bundle_id", bundle.ID, "keyword", bundle.Keyword)

	if p.publisher != nil {
		event := events.BundlePublished{
			BaseEvent: events.NewBaseEvent(events.BundlePublishedEvent, log.RequestIDFrom(ctx)),
			BundleID:  bundle.ID,
			Keyword:   bundle.Keyword,
			Title:     bundle.Draft.Title,
		}

		err = p.publisher.Publish(ctx, bundle.ID, event)
		if err != nil {
			logger.WarnContext(ctx, "failed to publish bundle event", "bundle_id", bundle.ID, "error", err)
		}
	}

	return bundle, nil
}

// GetResult returns a stored bundle, or nil when it is absent.
func (p *Pipeline) GetResult(ctx context.Context, id string) (*models.ResultBundle, error) {
	const op = "stages.GetResult"

	if p.store == nil {
		return nil, failure.New(failure.ConfigMissing, op, "no result store is configured")
	}

	bundle, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, failure.Wrap(failure.Internal, op, err)
	}

	return bundle, nil
}

// ListResults returns bundle summaries, newest first.
func (p *Pipeline) ListResults(ctx context.Context) ([]models.BundleSummary, error) {
	const op = "stages.ListResults"

	if p.store == nil {
		return nil, failure.New(failure.ConfigMissing, op, "no result store is configured")
	}

	summaries, err := p.store.List(ctx)
	if err != nil {
		return nil, failure.Wrap(failure.Internal, op, err)
	}

	return summaries, nil
}

// HealthCheck reports whether the result store is reachable.
func (p *Pipeline) HealthCheck(ctx context.Context) error {
	if p.store == nil {
		return failure.New(failure.ConfigMissing, "stages.HealthCheck", "no result store is configured")
	}

	return p.store.HealthCheck(ctx)
}

func call[T any](ctx context.Context, p *Pipeline, op, task string, prompt *template.Prompt, data any,
	contract *llm.Contract, preset llm.Preset,
) (T, error) {
	var zero T

	text, err := prompt.Render(data)
	if err != nil {
		return zero, failure.Wrap(failure.Internal, op, err)
	}

	return llm.Invoke[T](ctx, p.invoker, llm.CallSpec{
		Task:      task,
		Prompt:    text,
		Contract:  contract,
		Preset:    preset,
		JSONMode:  true,
		RequestID: log.RequestIDFrom(ctx),
	})
}
