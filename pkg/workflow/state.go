// Package workflow holds the client-side state machine that walks a keyword
// through the gated stages, and the controller that drives it.
package workflow

import "github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"

// Stage names the position of a State in the pipeline.
type Stage int

const (
	StageInput Stage = iota
	StageGateA
	StageGateB
	StageResult
	StageConfirmRollback
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageGateA:
		return "gate_a"
	case StageGateB:
		return "gate_b"
	case StageResult:
		return "result"
	case StageConfirmRollback:
		return "confirm_rollback"
	default:
		return "unknown"
	}
}

// State is one of Input, GateA, GateB, Result or ConfirmRollback. States are
// values; transitions build new ones and never mutate their argument.
type State interface {
	Stage() Stage
	isState()
}

// Input is the starting state: the run's request, before analysis.
type Input struct {
	Request models.IntentRequest
}

// GateA holds the intent analysis and the opportunity under review.
type GateA struct {
	Request  models.IntentRequest
	Analysis models.IntentAnalysis
	Selected *int
	Verdict  *models.ApprovalResult
}

// GateB holds the template proposal and the template under review. The
// accepted GateA it was reached from is kept as is.
type GateB struct {
	GateA    GateA
	Proposal models.TemplateProposal
	Selected *int
	Verdict  *models.ApprovalResult
}

// Result holds the draft, its verdict and, once published, the bundle id.
// Hint is the suggested fix of the last rejection; it survives regeneration
// and is replaced by the next verdict. A published Result is final.
type Result struct {
	GateB    GateB
	Draft    models.ContentDraft
	Verdict  *models.ApprovalResult
	Hint     string
	BundleID string
}

// ConfirmRollback waits for the user to confirm leaving From, which would
// discard its artifacts.
type ConfirmRollback struct {
	From State
}

func (Input) Stage() Stage           { return StageInput }
func (GateA) Stage() Stage           { return StageGateA }
func (GateB) Stage() Stage           { return StageGateB }
func (Result) Stage() Stage          { return StageResult }
func (ConfirmRollback) Stage() Stage { return StageConfirmRollback }

func (Input) isState()           {}
func (GateA) isState()           {}
func (GateB) isState()           {}
func (Result) isState()          {}
func (ConfirmRollback) isState() {}

// Approved reports whether the selected opportunity passed its gate.
func (g GateA) Approved() bool {
	return g.Selected != nil && g.Verdict != nil && g.Verdict.Approved
}

// Opportunity returns the selected opportunity.
func (g GateA) Opportunity() (models.Opportunity, bool) {
	if g.Selected == nil {
		return models.Opportunity{}, false
	}

	return g.Analysis.Opportunities[*g.Selected], true
}

// Approved reports whether the selected template passed its gate.
func (g GateB) Approved() bool {
	return g.Selected != nil && g.Verdict != nil && g.Verdict.Approved
}

// Template returns the selected template.
func (g GateB) Template() (models.Template, bool) {
	if g.Selected == nil {
		return models.Template{}, false
	}

	return g.Proposal.Templates[*g.Selected], true
}

// Approved reports whether the draft passed its gate.
func (r Result) Approved() bool {
	return r.Verdict != nil && r.Verdict.Approved
}

// Published reports whether the draft has been stored as a bundle.
func (r Result) Published() bool {
	return r.BundleID != ""
}

// PublishRequest assembles the bundle contents from the accepted artifacts.
func (r Result) PublishRequest() models.PublishRequest {
	req := models.PublishRequest{
		Keyword:  r.GateB.GateA.Request.Keyword,
		Analysis: r.GateB.GateA.Analysis,
		Proposal: r.GateB.Proposal,
		Draft:    r.Draft,
	}

	if r.GateB.GateA.Selected != nil {
		req.SelectedOpportunity = *r.GateB.GateA.Selected
	}

	if r.GateB.Selected != nil {
		req.SelectedTemplate = *r.GateB.Selected
	}

	if r.Verdict != nil {
		req.DraftApproval = *r.Verdict
	}

	return req
}

func index(i int) *int {
	return &i
}

func verdict(v models.ApprovalResult) *models.ApprovalResult {
	return &v
}
