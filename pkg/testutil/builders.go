// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
)

// CreateTestAnalysis creates a contract-valid IntentAnalysis with five opportunities.
func CreateTestAnalysis(overrides ...func(*models.IntentAnalysis)) models.IntentAnalysis {
	confidences := []models.Confidence{
		models.ConfidenceHigh, models.ConfidenceHigh, models.ConfidenceMedium,
		models.ConfidenceMedium, models.ConfidenceLow,
	}

	analysis := models.IntentAnalysis{
		Keyword:       "best crm software",
		PrimaryIntent: models.IntentCommercial,
		Summary:       "Buyers comparing CRM tools before purchase.",
	}

	for i, c := range confidences {
		analysis.Opportunities = append(analysis.Opportunities, models.Opportunity{
			Title:          fmt.Sprintf("Opportunity %d", i),
			Description:    "A page answering the buyer's question.",
			ContentType:    "guide",
			TargetAudience: "small business owners",
			Confidence:     c,
			Rationale:      "Recurring in the results.",
		})
	}

	for _, override := range overrides {
		override(&analysis)
	}

	return analysis
}

// CreateTestTemplate creates a contract-valid Template.
func CreateTestTemplate(name string) models.Template {
	return models.Template{
		Name:        name,
		Description: "Template " + name,
		Sections: []models.Section{
			{Heading: "Introduction", Purpose: "Frame the topic"},
			{Heading: "Details", Purpose: "Cover the options"},
		},
		TargetWordCount: 1200,
	}
}

// CreateTestProposal creates a proposal with two templates.
func CreateTestProposal() models.TemplateProposal {
	return models.TemplateProposal{Templates: []models.Template{
		CreateTestTemplate("Comparison"),
		CreateTestTemplate("Buyer's guide"),
	}}
}

// CreateTestDraft creates a contract-valid ContentDraft.
func CreateTestDraft(overrides ...func(*models.ContentDraft)) models.ContentDraft {
	draft := models.ContentDraft{
		Title:           "Best CRM Software: A Practical Guide",
		MetaDescription: "Compare the leading CRM tools.",
		Slug:            "best-crm-software",
		Sections:        []models.DraftSection{{Heading: "Introduction", Body: "Body text."}},
		FAQ:             []models.FAQ{{Question: "Is there a free CRM?", Answer: "Several."}},
	}

	for _, override := range overrides {
		override(&draft)
	}

	return draft
}

// Approved returns an approving verdict.
func Approved() models.ApprovalResult {
	return models.ApprovalResult{Approved: true, Reasons: []string{"fits the intent"}, RiskFlags: []string{}}
}

// Rejected returns a rejecting verdict with a suggested fix.
func Rejected(fix string) models.ApprovalResult {
	return models.ApprovalResult{
		Approved:     false,
		Reasons:      []string{"too generic"},
		RiskFlags:    []string{"thin content"},
		SuggestedFix: fix,
	}
}

// CreateTestPublishRequest creates a publishable request.
func CreateTestPublishRequest(overrides ...func(*models.PublishRequest)) models.PublishRequest {
	req := models.PublishRequest{
		Keyword:       "best crm software",
		Analysis:      CreateTestAnalysis(),
		Proposal:      CreateTestProposal(),
		Draft:         CreateTestDraft(),
		DraftApproval: Approved(),
	}

	for _, override := range overrides {
		override(&req)
	}

	return req
}

// CreateTestBundle creates a valid bundle with the given id and publish time.
func CreateTestBundle(id string, publishedAt time.Time, overrides ...func(*models.ResultBundle)) *models.ResultBundle {
	req := CreateTestPublishRequest()
	bundle := models.NewBundle(id, &req, publishedAt)

	for _, override := range overrides {
		override(bundle)
	}

	return bundle
}
