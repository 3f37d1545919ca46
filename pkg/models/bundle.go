package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotApproved is returned when publishing a draft whose verdict is not an approval.
var ErrNotApproved = errors.New("draft is not approved")

// PublishRequest carries every accepted artifact of a run.
type PublishRequest struct {
	Keyword             string           `json:"keyword"              validate:"required,min=2,max=120"`
	Analysis            IntentAnalysis   `json:"analysis"`
	SelectedOpportunity int              `json:"selected_opportunity" validate:"min=0"`
	Proposal            TemplateProposal `json:"proposal"`
	SelectedTemplate    int              `json:"selected_template"    validate:"min=0"`
	Draft               ContentDraft     `json:"draft"`
	DraftApproval       ApprovalResult   `json:"draft_approval"`
}

// ResultBundle is the immutable snapshot persisted at publish.
type ResultBundle struct {
	ID                  string           `json:"id"                   validate:"required,max=128"`
	Keyword             string           `json:"keyword"              validate:"required,min=2,max=120"`
	Analysis            IntentAnalysis   `json:"analysis"`
	SelectedOpportunity int              `json:"selected_opportunity" validate:"min=0"`
	Proposal            TemplateProposal `json:"proposal"`
	SelectedTemplate    int              `json:"selected_template"    validate:"min=0"`
	Draft               ContentDraft     `json:"draft"`
	DraftApproval       ApprovalResult   `json:"draft_approval"`
	PublishedAt         time.Time        `json:"published_at"         validate:"required"`
}

// BundleSummary is the list view of a ResultBundle.
type BundleSummary struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// Summary returns the list view of the bundle.
func (b *ResultBundle) Summary() BundleSummary {
	return BundleSummary{
		ID:          b.ID,
		Keyword:     b.Keyword,
		Title:       b.Draft.Title,
		PublishedAt: b.PublishedAt,
	}
}

// ValidateBundle checks a bundle against the bundle contract: field rules,
// in-range selections, an approved draft and a safe identifier.
func ValidateBundle(bundle *ResultBundle) error {
	if bundle == nil {
		return errors.New("bundle is nil")
	}

	if !SafeID(bundle.ID) {
		return fmt.Errorf("unsafe bundle id %q", bundle.ID)
	}

	err := Validate(bundle)
	if err != nil {
		return err
	}

	return checkSelections(bundle.Analysis, bundle.SelectedOpportunity, bundle.Proposal,
		bundle.SelectedTemplate, bundle.DraftApproval)
}

// ValidatePublish checks a publish request the same way ValidateBundle checks
// the bundle it becomes.
func ValidatePublish(req *PublishRequest) error {
	err := Validate(req)
	if err != nil {
		return err
	}

	return checkSelections(req.Analysis, req.SelectedOpportunity, req.Proposal,
		req.SelectedTemplate, req.DraftApproval)
}

// NewBundle snapshots an accepted publish request.
func NewBundle(id string, req *PublishRequest, publishedAt time.Time) *ResultBundle {
	return &ResultBundle{
		ID:                  id,
		Keyword:             req.Keyword,
		Analysis:            req.Analysis,
		SelectedOpportunity: req.SelectedOpportunity,
		Proposal:            req.Proposal,
		SelectedTemplate:    req.SelectedTemplate,
		Draft:               req.Draft,
		DraftApproval:       req.DraftApproval,
		PublishedAt:         publishedAt.UTC(),
	}
}

func checkSelections(analysis IntentAnalysis, opportunity int, proposal TemplateProposal,
	template int, approval ApprovalResult,
) error {
	err := CheckIndex("selected_opportunity", opportunity, len(analysis.Opportunities))
	if err != nil {
		return err
	}

	err = CheckIndex("selected_template", template, len(proposal.Templates))
	if err != nil {
		return err
	}

	if !approval.Approved {
		return ErrNotApproved
	}

	return nil
}
