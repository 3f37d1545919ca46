package workflow

import "github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"

// Event is an input to Transition.
type Event interface {
	Name() string
}

// IntentAnalyzed moves Input to GateA.
type IntentAnalyzed struct {
	Request  models.IntentRequest
	Analysis models.IntentAnalysis
}

// OpportunitySelected picks a candidate in GateA and clears its verdict.
type OpportunitySelected struct {
	Index int
}

// OpportunityReviewed records the gate verdict for the selected opportunity.
type OpportunityReviewed struct {
	Index   int
	Verdict models.ApprovalResult
}

// TemplatesProposed moves an approved GateA to GateB.
type TemplatesProposed struct {
	Proposal models.TemplateProposal
}

// TemplateSelected picks a candidate in GateB and clears its verdict.
type TemplateSelected struct {
	Index int
}

// TemplateReviewed records the gate verdict for the selected template.
type TemplateReviewed struct {
	Index   int
	Verdict models.ApprovalResult
}

// ContentGenerated moves an approved GateB to Result.
type ContentGenerated struct {
	Draft models.ContentDraft
}

// ContentReviewed records the gate verdict for the draft.
type ContentReviewed struct {
	Verdict models.ApprovalResult
}

// ContentRegenerated replaces the draft in Result.
type ContentRegenerated struct {
	Draft models.ContentDraft
}

// Published records the stored bundle id.
type Published struct {
	BundleID string
}

// CandidateRejected drops the selection and verdict of the current gate.
type CandidateRejected struct{}

// BackRequested asks to return to the previous stage.
type BackRequested struct{}

// BackConfirmed completes a pending rollback.
type BackConfirmed struct{}

// BackCancelled abandons a pending rollback.
type BackCancelled struct{}

func (IntentAnalyzed) Name() string      { return "intent_analyzed" }
func (OpportunitySelected) Name() string { return "opportunity_selected" }
func (OpportunityReviewed) Name() string { return "opportunity_reviewed" }
func (TemplatesProposed) Name() string   { return "templates_proposed" }
func (TemplateSelected) Name() string    { return "template_selected" }
func (TemplateReviewed) Name() string    { return "template_reviewed" }
func (ContentGenerated) Name() string    { return "content_generated" }
func (ContentReviewed) Name() string     { return "content_reviewed" }
func (ContentRegenerated) Name() string  { return "content_regenerated" }
func (Published) Name() string           { return "published" }
func (CandidateRejected) Name() string   { return "candidate_rejected" }
func (BackRequested) Name() string       { return "back_requested" }
func (BackConfirmed) Name() string       { return "back_confirmed" }
func (BackCancelled) Name() string       { return "back_cancelled" }
