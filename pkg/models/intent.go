package models

// IntentRequest starts a pipeline run.
type IntentRequest struct {
	Keyword      string `json:"keyword"                 validate:"required,min=2,max=120"`
	Location     string `json:"location,omitempty"      validate:"omitempty,max=120"`
	BusinessType string `json:"business_type,omitempty" validate:"omitempty,max=120"`
}

// Opportunity is one content idea proposed by intent analysis.
type Opportunity struct {
	Title          string     `json:"title"           validate:"required"`
	Description    string     `json:"description"     validate:"required"`
	ContentType    string     `json:"content_type"    validate:"required"`
	TargetAudience string     `json:"target_audience" validate:"required"`
	Confidence     Confidence `json:"confidence"      validate:"required,oneof=low medium high"`
	Rationale      string     `json:"rationale"       validate:"required"`
}

// IntentAnalysis is the output of the intent stage.
type IntentAnalysis struct {
	Keyword       string        `json:"keyword"        validate:"required"`
	PrimaryIntent Intent        `json:"primary_intent" validate:"required,oneof=informational commercial transactional navigational local"` //nolint:lll
	Summary       string        `json:"summary"        validate:"required"`
	Opportunities []Opportunity `json:"opportunities"  validate:"min=5,max=10,dive"`
}

// OpportunityApprovalRequest asks the opportunity gate to judge one candidate.
type OpportunityApprovalRequest struct {
	Keyword       string         `json:"keyword"        validate:"required,min=2,max=120"`
	Analysis      IntentAnalysis `json:"analysis"`
	SelectedIndex int            `json:"selected_index" validate:"min=0"`
}
