package models

// Section is one planned heading of a template.
type Section struct {
	Heading string `json:"heading" validate:"required"`
	Purpose string `json:"purpose" validate:"required"`
}

// Template is a page structure candidate.
type Template struct {
	Name            string    `json:"name"              validate:"required"`
	Description     string    `json:"description"       validate:"required"`
	Sections        []Section `json:"sections"          validate:"min=1,max=20,dive"`
	TargetWordCount int       `json:"target_word_count" validate:"min=100,max=10000"`
}

// TemplateProposal is the output of the template stage.
type TemplateProposal struct {
	Templates []Template `json:"templates" validate:"min=2,max=6,dive"`
}

// TemplateRequest asks for templates fitting the approved opportunity.
type TemplateRequest struct {
	Keyword       string         `json:"keyword"                 validate:"required,min=2,max=120"`
	Location      string         `json:"location,omitempty"      validate:"omitempty,max=120"`
	BusinessType  string         `json:"business_type,omitempty" validate:"omitempty,max=120"`
	Analysis      IntentAnalysis `json:"analysis"`
	SelectedIndex int            `json:"selected_index"          validate:"min=0"`
}

// TemplateApprovalRequest asks the template gate to judge one candidate.
type TemplateApprovalRequest struct {
	Keyword       string           `json:"keyword"        validate:"required,min=2,max=120"`
	Opportunity   Opportunity      `json:"opportunity"`
	Proposal      TemplateProposal `json:"proposal"`
	SelectedIndex int              `json:"selected_index" validate:"min=0"`
}
