package workflow

import (
	"testing"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateA(t *testing.T) GateA {
	t.Helper()

	state, err := Transition(Input{}, IntentAnalyzed{
		Request:  models.IntentRequest{Keyword: "best crm software"},
		Analysis: testutil.CreateTestAnalysis(),
	})
	require.NoError(t, err)

	return state.(GateA)
}

func approvedGateA(t *testing.T) GateA {
	t.Helper()

	state := mustApply(t, gateA(t), OpportunitySelected{Index: 0}, OpportunityReviewed{Index: 0, Verdict: testutil.Approved()})

	return state.(GateA)
}

func approvedGateB(t *testing.T) GateB {
	t.Helper()

	state := mustApply(t, approvedGateA(t),
		TemplatesProposed{Proposal: testutil.CreateTestProposal()},
		TemplateSelected{Index: 1},
		TemplateReviewed{Index: 1, Verdict: testutil.Approved()},
	)

	return state.(GateB)
}

func resultState(t *testing.T) Result {
	t.Helper()

	return mustApply(t, approvedGateB(t), ContentGenerated{Draft: testutil.CreateTestDraft()}).(Result)
}

func mustApply(t *testing.T, state State, events ...Event) State {
	t.Helper()

	for _, event := range events {
		var err error

		state, err = Transition(state, event)
		require.NoError(t, err, event.Name())
	}

	return state
}

func TestTransition_RejectedVerdictNeverAdvances(t *testing.T) {
	rejected := testutil.Rejected("narrow the audience")

	tests := []struct {
		name  string
		state State
		event Event
	}{
		{
			name:  "gate a without selection",
			state: gateA(t),
			event: TemplatesProposed{Proposal: testutil.CreateTestProposal()},
		},
		{
			name:  "gate a without verdict",
			state: mustApply(t, gateA(t), OpportunitySelected{Index: 2}),
			event: TemplatesProposed{Proposal: testutil.CreateTestProposal()},
		},
		{
			name:  "gate a rejected",
			state: mustApply(t, gateA(t), OpportunitySelected{Index: 2}, OpportunityReviewed{Index: 2, Verdict: rejected}),
			event: TemplatesProposed{Proposal: testutil.CreateTestProposal()},
		},
		{
			name: "gate b rejected",
			state: mustApply(t, approvedGateA(t),
				TemplatesProposed{Proposal: testutil.CreateTestProposal()},
				TemplateSelected{Index: 0},
				TemplateReviewed{Index: 0, Verdict: rejected},
			),
			event: ContentGenerated{Draft: testutil.CreateTestDraft()},
		},
		{
			name:  "result rejected",
			state: mustApply(t, resultState(t), ContentReviewed{Verdict: rejected}),
			event: Published{BundleID: "best-crm-software-abc123"},
		},
		{
			name:  "result unreviewed",
			state: resultState(t),
			event: Published{BundleID: "best-crm-software-abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Transition(tt.state, tt.event)

			require.Error(t, err)
			assert.True(t, IsIllegalTransition(err))
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestTransition_RejectionKeepsCandidates(t *testing.T) {
	state := mustApply(t, gateA(t),
		OpportunitySelected{Index: 3},
		OpportunityReviewed{Index: 3, Verdict: testutil.Rejected("too broad")},
	)

	gate := state.(GateA)
	require.NotNil(t, gate.Verdict)
	assert.False(t, gate.Verdict.Approved)
	assert.Equal(t, "too broad", gate.Verdict.SuggestedFix)

	state = mustApply(t, state, CandidateRejected{})
	gate = state.(GateA)
	assert.Nil(t, gate.Selected)
	assert.Nil(t, gate.Verdict)
	assert.Len(t, gate.Analysis.Opportunities, 5)

	state = mustApply(t, state, OpportunitySelected{Index: 1}, OpportunityReviewed{Index: 1, Verdict: testutil.Approved()})
	assert.True(t, state.(GateA).Approved())
}

func TestTransition_SelectionClearsVerdict(t *testing.T) {
	state := mustApply(t, approvedGateA(t), OpportunitySelected{Index: 4})

	gate := state.(GateA)
	assert.Equal(t, 4, *gate.Selected)
	assert.Nil(t, gate.Verdict)
}

func TestTransition_VerdictMustMatchSelection(t *testing.T) {
	state := mustApply(t, gateA(t), OpportunitySelected{Index: 0})

	_, err := Transition(state, OpportunityReviewed{Index: 1, Verdict: testutil.Approved()})
	assert.True(t, IsIllegalTransition(err))
}

func TestTransition_SelectionOutOfRange(t *testing.T) {
	_, err := Transition(gateA(t), OpportunitySelected{Index: 5})
	assert.True(t, IsIllegalTransition(err))

	_, err = Transition(approvedGateB(t), TemplateSelected{Index: -1})
	assert.True(t, IsIllegalTransition(err))
}

func TestTransition_BackFromGateAIsImmediate(t *testing.T) {
	state := mustApply(t, approvedGateA(t), BackRequested{})

	input, ok := state.(Input)
	require.True(t, ok)
	assert.Equal(t, "best crm software", input.Request.Keyword)
}

func TestTransition_RollbackFromResult(t *testing.T) {
	result := mustApply(t, resultState(t), ContentReviewed{Verdict: testutil.Approved()}).(Result)

	pending := mustApply(t, result, BackRequested{})
	require.Equal(t, StageConfirmRollback, pending.Stage())

	cancelled := mustApply(t, pending, BackCancelled{})
	assert.Equal(t, result, cancelled)

	state := mustApply(t, pending, BackConfirmed{})
	gate, ok := state.(GateB)
	require.True(t, ok)

	assert.Equal(t, 0, *gate.GateA.Selected, "gate a selection survives")
	assert.True(t, gate.GateA.Approved())
	assert.Equal(t, 1, *gate.Selected, "template selection is kept")
	assert.Nil(t, gate.Verdict, "template verdict is cleared")

	_, err := Transition(gate, ContentGenerated{Draft: testutil.CreateTestDraft()})
	assert.True(t, IsIllegalTransition(err), "reaching Result again needs a new verdict")

	state = mustApply(t, gate,
		TemplateReviewed{Index: 1, Verdict: testutil.Approved()},
		ContentGenerated{Draft: testutil.CreateTestDraft(func(d *models.ContentDraft) { d.Title = "Fresh" })},
	)

	fresh := state.(Result)
	assert.Nil(t, fresh.Verdict)
	assert.False(t, fresh.Published())
	assert.Equal(t, "Fresh", fresh.Draft.Title)
}

func TestTransition_RollbackFromGateB(t *testing.T) {
	state := mustApply(t, approvedGateB(t), BackRequested{}, BackConfirmed{})

	gate, ok := state.(GateA)
	require.True(t, ok)
	assert.Equal(t, 0, *gate.Selected)
	assert.Nil(t, gate.Verdict)
	assert.Len(t, gate.Analysis.Opportunities, 5)
}

func TestTransition_PublishedResultIsFinal(t *testing.T) {
	state := mustApply(t, resultState(t),
		ContentReviewed{Verdict: testutil.Approved()},
		Published{BundleID: "best-crm-software-abc123"},
	)

	result := state.(Result)
	assert.Equal(t, "best-crm-software-abc123", result.BundleID)

	tests := []struct {
		name  string
		event Event
	}{
		{"publish again", Published{BundleID: "best-crm-software-def456"}},
		{"rejecting review", ContentReviewed{Verdict: testutil.Rejected("shorter intro")}},
		{"approving review", ContentReviewed{Verdict: testutil.Approved()}},
		{"regenerate", ContentRegenerated{Draft: testutil.CreateTestDraft()}},
		{"reject candidate", CandidateRejected{}},
		{"back", BackRequested{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Transition(result, tt.event)
			require.Error(t, err)
			assert.True(t, IsIllegalTransition(err))
			assert.Equal(t, result, next)
			assert.Contains(t, err.Error(), "already published")
		})
	}
}

func TestTransition_RegenerateKeepsSelections(t *testing.T) {
	result := mustApply(t, resultState(t), ContentReviewed{Verdict: testutil.Approved()}).(Result)

	regenerated := mustApply(t, result, ContentRegenerated{Draft: testutil.CreateTestDraft()}).(Result)
	assert.Nil(t, regenerated.Verdict)
	assert.False(t, regenerated.Published())
	assert.Equal(t, result.GateB, regenerated.GateB)
}

func TestTransition_HintFollowsLastRejection(t *testing.T) {
	result := mustApply(t, resultState(t), ContentReviewed{Verdict: testutil.Rejected("add a pricing table")}).(Result)
	assert.Equal(t, "add a pricing table", result.Hint)

	result = mustApply(t, result, ContentRegenerated{Draft: testutil.CreateTestDraft()}).(Result)
	assert.Equal(t, "add a pricing table", result.Hint, "regeneration keeps the fix")

	result = mustApply(t, result, CandidateRejected{}).(Result)
	assert.Equal(t, "add a pricing table", result.Hint, "dropping the verdict keeps the fix")

	result = mustApply(t, result, ContentRegenerated{Draft: testutil.CreateTestDraft()}).(Result)
	assert.Equal(t, "add a pricing table", result.Hint)

	result = mustApply(t, result, ContentReviewed{Verdict: testutil.Rejected("cite sources")}).(Result)
	assert.Equal(t, "cite sources", result.Hint)

	result = mustApply(t, result, ContentReviewed{Verdict: testutil.Approved()}).(Result)
	assert.Empty(t, result.Hint)
}

func TestTransition_IllegalEvents(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{"back from input", Input{}, BackRequested{}},
		{"select in input", Input{}, OpportunitySelected{}},
		{"empty analysis", Input{}, IntentAnalyzed{}},
		{"confirm without pending", approvedGateA(t), BackConfirmed{}},
		{"review content in gate b", approvedGateB(t), ContentReviewed{Verdict: testutil.Approved()}},
		{"analyze again", approvedGateA(t), IntentAnalyzed{Analysis: testutil.CreateTestAnalysis()}},
		{"select while confirming", ConfirmRollback{From: approvedGateB(t)}, TemplateSelected{Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Transition(tt.state, tt.event)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, tt.state, next)
		})
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	gate := approvedGateA(t)
	before := *gate.Selected

	_ = mustApply(t, gate, OpportunitySelected{Index: 3})

	assert.Equal(t, before, *gate.Selected)
	assert.NotNil(t, gate.Verdict)
}
