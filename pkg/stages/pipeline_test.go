package stages_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/channels/gochannel"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/events"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm/providers"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence/file"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/stages"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newPipeline(t *testing.T, opts ...stages.Option) (*stages.Pipeline, *providers.Mock) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := providers.NewMock()
	store := file.NewPersistence(logger, t.TempDir())

	opts = append([]stages.Option{stages.WithLogger(logger), stages.WithClock(func() time.Time { return fixedNow })}, opts...)

	return stages.NewPipeline(llm.NewInvoker(mock, llm.WithLogger(logger)), store, opts...), mock
}

func TestPipeline_BestCRMSoftwareRun(t *testing.T) {
	p, mock := newPipeline(t)
	ctx := context.Background()

	analysis, err := p.AnalyzeIntent(ctx, models.IntentRequest{Keyword: "best crm software"})
	require.NoError(t, err)
	assert.Equal(t, "best crm software", analysis.Keyword)
	require.GreaterOrEqual(t, len(analysis.Opportunities), models.MinOpportunities)

	for _, opportunity := range analysis.Opportunities {
		assert.Contains(t, []models.Confidence{models.ConfidenceLow, models.ConfidenceMedium, models.ConfidenceHigh},
			opportunity.Confidence)
	}

	verdict, err := p.ReviewOpportunity(ctx, models.OpportunityApprovalRequest{
		Keyword:  "best crm software",
		Analysis: analysis,
	})
	require.NoError(t, err)
	assert.True(t, verdict.Approved)

	proposal, err := p.ProposeTemplates(ctx, models.TemplateRequest{Keyword: "best crm software", Analysis: analysis})
	require.NoError(t, err)
	require.NotEmpty(t, proposal.Templates)

	verdict, err = p.ReviewTemplate(ctx, models.TemplateApprovalRequest{
		Keyword:       "best crm software",
		Opportunity:   analysis.Opportunities[0],
		Proposal:      proposal,
		SelectedIndex: 1,
	})
	require.NoError(t, err)
	assert.True(t, verdict.Approved)

	draft, err := p.GenerateContent(ctx, models.ContentRequest{
		Keyword:     "best crm software",
		Opportunity: analysis.Opportunities[0],
		Template:    proposal.Templates[1],
	})
	require.NoError(t, err)
	assert.Equal(t, "best-crm-software", draft.Slug)
	assert.Equal(t, "mock:"+providers.MockModel, draft.Model)

	verdict, err = p.ReviewContent(ctx, models.ContentApprovalRequest{
		Keyword:  "best crm software",
		Template: proposal.Templates[1],
		Draft:    draft,
	})
	require.NoError(t, err)
	require.True(t, verdict.Approved)

	bundle, err := p.Publish(ctx, models.PublishRequest{
		Keyword:          "best crm software",
		Analysis:         analysis,
		Proposal:         proposal,
		SelectedTemplate: 1,
		Draft:            draft,
		DraftApproval:    verdict,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^best-crm-software-[a-z0-9]{6}$`, bundle.ID)
	assert.Equal(t, fixedNow, bundle.PublishedAt)

	for _, task := range []string{
		models.TaskIntentAnalysis, models.TaskOpportunityValidation, models.TaskTemplateProposal,
		models.TaskTemplateValidation, models.TaskContentGeneration, models.TaskContentValidation,
	} {
		assert.Equal(t, 1, mock.Calls(task), task)
	}
}

func TestPipeline_CallerValidation(t *testing.T) {
	p, mock := newPipeline(t)
	ctx := context.Background()
	analysis := testutil.CreateTestAnalysis()

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{
			name: "keyword too short",
			call: func() error {
				_, err := p.AnalyzeIntent(ctx, models.IntentRequest{Keyword: "a"})

				return err
			},
			message: "keyword must be at least 2",
		},
		{
			name: "opportunity index out of range",
			call: func() error {
				_, err := p.ReviewOpportunity(ctx, models.OpportunityApprovalRequest{
					Keyword: "best crm software", Analysis: analysis, SelectedIndex: 5,
				})

				return err
			},
			message: "selected_index 5 is out of range",
		},
		{
			name: "negative template index",
			call: func() error {
				_, err := p.ReviewTemplate(ctx, models.TemplateApprovalRequest{
					Keyword:       "best crm software",
					Opportunity:   analysis.Opportunities[0],
					Proposal:      testutil.CreateTestProposal(),
					SelectedIndex: -1,
				})

				return err
			},
			message: "selected_index",
		},
		{
			name: "too few opportunities",
			call: func() error {
				short := testutil.CreateTestAnalysis(func(a *models.IntentAnalysis) {
					a.Opportunities = a.Opportunities[:3]
				})
				_, err := p.ProposeTemplates(ctx, models.TemplateRequest{Keyword: "best crm software", Analysis: short})

				return err
			},
			message: "analysis.opportunities must be at least 5",
		},
		{
			name: "draft without sections",
			call: func() error {
				_, err := p.ReviewContent(ctx, models.ContentApprovalRequest{
					Keyword:  "best crm software",
					Template: testutil.CreateTestTemplate("Comparison"),
					Draft:    testutil.CreateTestDraft(func(d *models.ContentDraft) { d.Sections = nil }),
				})

				return err
			},
			message: "draft.sections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, failure.CallerValidation, failure.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	for _, task := range []string{
		models.TaskIntentAnalysis, models.TaskOpportunityValidation, models.TaskTemplateProposal,
		models.TaskTemplateValidation, models.TaskContentValidation,
	} {
		assert.Zero(t, mock.Calls(task), "invalid input must not reach the provider")
	}
}

func TestPipeline_ProviderFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder providers.ResponderFunc
		want      failure.Kind
	}{
		{
			name: "network error",
			responder: func(context.Context, llm.Request) (string, error) {
				return "", errors.New("dial tcp: connection refused")
			},
			want: failure.UpstreamFailure,
		},
		{
			name: "not json",
			responder: func(context.Context, llm.Request) (string, error) {
				return "I cannot help with that.", nil
			},
			want: failure.InvalidPayload,
		},
		{
			name: "contract violation",
			responder: func(context.Context, llm.Request) (string, error) {
				return `{"keyword":"x","primary_intent":"commercial","summary":"s","opportunities":[]}`, nil
			},
			want: failure.OutputContractViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newPipeline(t)
			mock.Respond(models.TaskIntentAnalysis, tt.responder)

			analysis, err := p.AnalyzeIntent(context.Background(), models.IntentRequest{Keyword: "best crm software"})
			require.Error(t, err)
			assert.Equal(t, tt.want, failure.KindOf(err))
			assert.Empty(t, analysis.Opportunities)
		})
	}
}

func TestPipeline_GateRejectionIsNotAnError(t *testing.T) {
	p, mock := newPipeline(t)
	mock.Reject(models.TaskContentValidation, "too generic", "add pricing details")

	verdict, err := p.ReviewContent(context.Background(), models.ContentApprovalRequest{
		Keyword:  "best crm software",
		Template: testutil.CreateTestTemplate("Comparison"),
		Draft:    testutil.CreateTestDraft(),
	})
	require.NoError(t, err)
	assert.False(t, verdict.Approved)
	assert.Equal(t, "add pricing details", verdict.SuggestedFix)
}

func TestPipeline_ImprovementHintReachesPrompt(t *testing.T) {
	p, mock := newPipeline(t)

	var prompt string

	mock.Respond(models.TaskContentGeneration, func(_ context.Context, req llm.Request) (string, error) {
		prompt = req.Prompt

		return `{"title":"T","meta_description":"M","slug":"best-crm-software","sections":[{"heading":"H","body":"B"}],"faq":[]}`, nil
	})

	_, err := p.GenerateContent(context.Background(), models.ContentRequest{
		Keyword:         "best crm software",
		Opportunity:     testutil.CreateTestAnalysis().Opportunities[0],
		Template:        testutil.CreateTestTemplate("Comparison"),
		ImprovementHint: "add pricing details",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "add pricing details")
}

func TestPipeline_PublishRejectsUnapprovedDraft(t *testing.T) {
	p, _ := newPipeline(t)

	req := testutil.CreateTestPublishRequest(func(r *models.PublishRequest) {
		r.DraftApproval = testutil.Rejected("rewrite the intro")
	})

	bundle, err := p.Publish(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, bundle)
	assert.Equal(t, failure.CallerValidation, failure.KindOf(err))
	assert.ErrorIs(t, err, models.ErrNotApproved)

	summaries, err := p.ListResults(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestPipeline_PublishStoresAndAnnounces(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(log.ContextWithRequestID(context.Background(), "req-42"))
	t.Cleanup(cancel)

	received := make(chan *events.BundlePublished, 1)

	require.NoError(t, bus.Handle(events.BundlePublishedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.BundlePublished)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	p, _ := newPipeline(t, stages.WithPublisher(bus))

	bundle, err := p.Publish(ctx, testutil.CreateTestPublishRequest())
	require.NoError(t, err)

	got, err := p.GetResult(ctx, bundle.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bundle.Draft, got.Draft)

	summaries, err := p.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, bundle.ID, summaries[0].ID)

	select {
	case event := <-received:
		assert.Equal(t, bundle.ID, event.BundleID)
		assert.Equal(t, "req-42", event.RequestID)
	case <-time.After(2 * time.Second):
		t.Fatal("bundle.published was not delivered")
	}
}

func TestPipeline_GetResultAbsent(t *testing.T) {
	p, _ := newPipeline(t)

	for _, id := range []string{"missing-abc123", "../../etc/passwd"} {
		got, err := p.GetResult(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestPipeline_NoStore(t *testing.T) {
	p := stages.NewPipeline(llm.NewInvoker(providers.NewMock()), nil)

	_, err := p.Publish(context.Background(), testutil.CreateTestPublishRequest())
	assert.Equal(t, failure.ConfigMissing, failure.KindOf(err))

	_, err = p.ListResults(context.Background())
	assert.Equal(t, failure.ConfigMissing, failure.KindOf(err))
}

func TestPipeline_NoProvider(t *testing.T) {
	p := stages.NewPipeline(llm.NewInvoker(nil), nil)

	_, err := p.AnalyzeIntent(context.Background(), models.IntentRequest{Keyword: "best crm software"})
	assert.Equal(t, failure.ConfigMissing, failure.KindOf(err))
}
