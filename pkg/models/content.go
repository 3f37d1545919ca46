package models

// DraftSection is one written section of a draft.
type DraftSection struct {
	Heading string `json:"heading" validate:"required"`
	Body    string `json:"body"    validate:"required"`
}

// FAQ is a question and answer pair rendered under the draft.
type FAQ struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

// ContentDraft is the output of the content stage. Model names the provider
// model that wrote it and is informational only.
type ContentDraft struct {
	Title           string         `json:"title"            validate:"required,max=200"`
	MetaDescription string         `json:"meta_description" validate:"required,max=320"`
	Slug            string         `json:"slug"             validate:"required,max=120"`
	Sections        []DraftSection `json:"sections"         validate:"min=1,dive"`
	FAQ             []FAQ          `json:"faq"              validate:"dive"`
	Model           string         `json:"model,omitempty"`
}

// ContentRequest asks for a draft built from the approved selections.
type ContentRequest struct {
	Keyword         string      `json:"keyword"                    validate:"required,min=2,max=120"`
	Location        string      `json:"location,omitempty"         validate:"omitempty,max=120"`
	BusinessType    string      `json:"business_type,omitempty"    validate:"omitempty,max=120"`
	Opportunity     Opportunity `json:"opportunity"`
	Template        Template    `json:"template"`
	ImprovementHint string      `json:"improvement_hint,omitempty" validate:"omitempty,max=2000"`
}

// ContentApprovalRequest asks the content gate to judge a draft.
type ContentApprovalRequest struct {
	Keyword  string       `json:"keyword"  validate:"required,min=2,max=120"`
	Template Template     `json:"template"`
	Draft    ContentDraft `json:"draft"`
}
