// Package models defines the payloads exchanged between pipeline stages and
// the bundle persisted at publish time.
package models

// Stage task names. They identify a model call to providers and telemetry.
const (
	TaskIntentAnalysis        = "intent_analysis"
	TaskOpportunityValidation = "opportunity_validation"
	TaskTemplateProposal      = "template_proposal"
	TaskTemplateValidation    = "template_validation"
	TaskContentGeneration     = "content_generation"
	TaskContentValidation     = "content_validation"
)

// Intent classifies what a searcher wants from a keyword.
type Intent string

const (
	IntentInformational Intent = "informational"
	IntentCommercial    Intent = "commercial"
	IntentTransactional Intent = "transactional"
	IntentNavigational  Intent = "navigational"
	IntentLocal         Intent = "local"
)

// Confidence is the model's certainty about an opportunity.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Limits shared by the validation tags and the output contracts.
const (
	MinOpportunities = 5
	MaxOpportunities = 10
	MinTemplates     = 2
	MaxTemplates     = 6
)
