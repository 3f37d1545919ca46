package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
)

var ErrNothingToRetry = errors.New("no failed action to retry")

// StageClient runs the pipeline stages. It is implemented in process by
// stages.Pipeline and over HTTP by client.Client.
type StageClient interface {
	AnalyzeIntent(ctx context.Context, req models.IntentRequest) (models.IntentAnalysis, error)
	ReviewOpportunity(ctx context.Context, req models.OpportunityApprovalRequest) (models.ApprovalResult, error)
	ProposeTemplates(ctx context.Context, req models.TemplateRequest) (models.TemplateProposal, error)
	ReviewTemplate(ctx context.Context, req models.TemplateApprovalRequest) (models.ApprovalResult, error)
	GenerateContent(ctx context.Context, req models.ContentRequest) (models.ContentDraft, error)
	ReviewContent(ctx context.Context, req models.ContentApprovalRequest) (models.ApprovalResult, error)
	Publish(ctx context.Context, req models.PublishRequest) (*models.ResultBundle, error)
}

type action struct {
	name string
	run  func(ctx context.Context) error
}

// Controller drives one run through the stages. It is not safe for
// concurrent use; a run belongs to a single user session.
type Controller struct {
	client StageClient
	state  State
	failed *action
	logger *slog.Logger
}

// NewController creates a controller in the Input state.
func NewController(client StageClient, logger *slog.Logger) *Controller {
	return &Controller{
		client: client,
		state:  Input{},
		logger: logger.With("module", "workflow_controller"),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// FailedAction names the action Retry would re-issue, or "".
func (c *Controller) FailedAction() string {
	if c.failed == nil {
		return ""
	}

	return c.failed.name
}

// Start analyzes the keyword and moves to GateA.
func (c *Controller) Start(ctx context.Context, req models.IntentRequest) error {
	if _, ok := c.state.(Input); !ok {
		return illegal(c.state, IntentAnalyzed{}, "a run is already in progress")
	}

	return c.do(ctx, action{name: "analyze_intent", run: func(ctx context.Context) error {
		analysis, err := c.client.AnalyzeIntent(ctx, req)
		if err != nil {
			return err
		}

		return c.apply(IntentAnalyzed{Request: req, Analysis: analysis})
	}})
}

// SelectOpportunity picks an opportunity in GateA.
func (c *Controller) SelectOpportunity(i int) error {
	return c.apply(OpportunitySelected{Index: i})
}

// ReviewOpportunity asks the opportunity gate about the selection.
func (c *Controller) ReviewOpportunity(ctx context.Context) error {
	gate, ok := c.state.(GateA)
	if !ok || gate.Selected == nil {
		return illegal(c.state, OpportunityReviewed{}, "no opportunity selected")
	}

	selected := *gate.Selected

	return c.do(ctx, action{name: "review_opportunity", run: func(ctx context.Context) error {
		result, err := c.client.ReviewOpportunity(ctx, models.OpportunityApprovalRequest{
			Keyword:       gate.Request.Keyword,
			Analysis:      gate.Analysis,
			SelectedIndex: selected,
		})
		if err != nil {
			return err
		}

		return c.apply(OpportunityReviewed{Index: selected, Verdict: result})
	}})
}

// ProposeTemplates moves an approved GateA to GateB.
func (c *Controller) ProposeTemplates(ctx context.Context) error {
	gate, ok := c.state.(GateA)
	if !ok || !gate.Approved() {
		return illegal(c.state, TemplatesProposed{}, "the selected opportunity is not approved")
	}

	return c.do(ctx, action{name: "propose_templates", run: func(ctx context.Context) error {
		proposal, err := c.client.ProposeTemplates(ctx, models.TemplateRequest{
			Keyword:       gate.Request.Keyword,
			Location:      gate.Request.Location,
			BusinessType:  gate.Request.BusinessType,
			Analysis:      gate.Analysis,
			SelectedIndex: *gate.Selected,
		})
		if err != nil {
			return err
		}

		return c.apply(TemplatesProposed{Proposal: proposal})
	}})
}

// SelectTemplate picks a template in GateB.
func (c *Controller) SelectTemplate(i int) error {
	return c.apply(TemplateSelected{Index: i})
}

// ReviewTemplate asks the template gate about the selection.
func (c *Controller) ReviewTemplate(ctx context.Context) error {
	gate, ok := c.state.(GateB)
	if !ok || gate.Selected == nil {
		return illegal(c.state, TemplateReviewed{}, "no template selected")
	}

	selected := *gate.Selected
	opportunity, _ := gate.GateA.Opportunity()

	return c.do(ctx, action{name: "review_template", run: func(ctx context.Context) error {
		result, err := c.client.ReviewTemplate(ctx, models.TemplateApprovalRequest{
			Keyword:       gate.GateA.Request.Keyword,
			Opportunity:   opportunity,
			Proposal:      gate.Proposal,
			SelectedIndex: selected,
		})
		if err != nil {
			return err
		}

		return c.apply(TemplateReviewed{Index: selected, Verdict: result})
	}})
}

// GenerateContent moves an approved GateB to Result.
func (c *Controller) GenerateContent(ctx context.Context) error {
	gate, ok := c.state.(GateB)
	if !ok || !gate.Approved() {
		return illegal(c.state, ContentGenerated{}, "the selected template is not approved")
	}

	return c.do(ctx, action{name: "generate_content", run: func(ctx context.Context) error {
		draft, err := c.client.GenerateContent(ctx, contentRequest(gate, ""))
		if err != nil {
			return err
		}

		return c.apply(ContentGenerated{Draft: draft})
	}})
}

// ReviewContent asks the content gate about the draft.
func (c *Controller) ReviewContent(ctx context.Context) error {
	result, ok := c.state.(Result)
	if !ok || result.Published() {
		return illegal(c.state, ContentReviewed{}, "no unpublished draft to review")
	}

	template, _ := result.GateB.Template()

	return c.do(ctx, action{name: "review_content", run: func(ctx context.Context) error {
		v, err := c.client.ReviewContent(ctx, models.ContentApprovalRequest{
			Keyword:  result.GateB.GateA.Request.Keyword,
			Template: template,
			Draft:    result.Draft,
		})
		if err != nil {
			return err
		}

		return c.apply(ContentReviewed{Verdict: v})
	}})
}

// Regenerate writes a new draft from the same selections. The suggested fix
// of the last rejection is passed as the improvement hint.
func (c *Controller) Regenerate(ctx context.Context) error {
	result, ok := c.state.(Result)
	if !ok || result.Published() {
		return illegal(c.state, ContentRegenerated{}, "no unpublished draft to regenerate")
	}

	return c.do(ctx, action{name: "regenerate_content", run: func(ctx context.Context) error {
		draft, err := c.client.GenerateContent(ctx, contentRequest(result.GateB, result.Hint))
		if err != nil {
			return err
		}

		return c.apply(ContentRegenerated{Draft: draft})
	}})
}

// Publish stores the approved draft as a bundle.
func (c *Controller) Publish(ctx context.Context) (*models.ResultBundle, error) {
	result, ok := c.state.(Result)
	if !ok || !result.Approved() || result.Published() {
		return nil, illegal(c.state, Published{}, "the draft is not approved or already published")
	}

	var bundle *models.ResultBundle

	err := c.do(ctx, action{name: "publish", run: func(ctx context.Context) error {
		b, err := c.client.Publish(ctx, result.PublishRequest())
		if err != nil {
			return err
		}

		bundle = b

		return c.apply(Published{BundleID: b.ID})
	}})
	if err != nil {
		return nil, err
	}

	return bundle, nil
}

// RejectCandidate drops the current gate's selection and verdict.
func (c *Controller) RejectCandidate() error {
	return c.apply(CandidateRejected{})
}

// Back returns to the previous stage, or asks for confirmation when the
// move would discard artifacts.
func (c *Controller) Back() error {
	return c.apply(BackRequested{})
}

// ConfirmBack completes a pending rollback.
func (c *Controller) ConfirmBack() error {
	return c.apply(BackConfirmed{})
}

// CancelBack abandons a pending rollback.
func (c *Controller) CancelBack() error {
	return c.apply(BackCancelled{})
}

// Retry re-issues the last failed stage call. The state is unchanged unless
// the call now succeeds.
func (c *Controller) Retry(ctx context.Context) error {
	if c.failed == nil {
		return ErrNothingToRetry
	}

	return c.do(ctx, *c.failed)
}

func (c *Controller) do(ctx context.Context, a action) error {
	err := a.run(ctx)
	if err != nil {
		if !IsIllegalTransition(err) {
			c.failed = &a
		}

		c.logger.DebugContext(ctx, "stage call failed", "action", a.name, "stage", c.state.Stage(), "error", err)

		return fmt.Errorf("failed to %s: %w", a.name, err)
	}

	return nil
}

func (c *Controller) apply(event Event) error {
	next, err := Transition(c.state, event)
	if err != nil {
		return err
	}

	c.state = next
	c.failed = nil

	return nil
}

func contentRequest(gate GateB, hint string) models.ContentRequest {
	opportunity, _ := gate.GateA.Opportunity()
	template, _ := gate.Template()

	return models.ContentRequest{
		Keyword:         gate.GateA.Request.Keyword,
		Location:        gate.GateA.Request.Location,
		BusinessType:    gate.GateA.Request.BusinessType,
		Opportunity:     opportunity,
		Template:        template,
		ImprovementHint: hint,
	}
}
