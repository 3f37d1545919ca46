package stages

import "github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"

// Output contracts for model payloads. They mirror the validate tags in
// pkg/models so anything the model returns also passes caller validation
// when it is sent back on the next stage.
var (
	IntentContract = llm.MustContract("intent_analysis", `{
	"type": "object",
	"required": ["keyword", "primary_intent", "summary", "opportunities"],
	"properties": {
		"keyword": {"type": "string", "minLength": 1},
		"primary_intent": {"enum": ["informational", "commercial", "transactional", "navigational", "local"]},
		"summary": {"type": "string", "minLength": 1},
		"opportunities": {
			"type": "array",
			"minItems": 5,
			"maxItems": 10,
			"items": {
				"type": "object",
				"required": ["title", "description", "content_type", "target_audience", "confidence", "rationale"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string", "minLength": 1},
					"content_type": {"type": "string", "minLength": 1},
					"target_audience": {"type": "string", "minLength": 1},
					"confidence": {"enum": ["low", "medium", "high"]},
					"rationale": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`)

	TemplateContract = llm.MustContract("template_proposal", `{
	"type": "object",
	"required": ["templates"],
	"properties": {
		"templates": {
			"type": "array",
			"minItems": 2,
			"maxItems": 6,
			"items": {
				"type": "object",
				"required": ["name", "description", "sections", "target_word_count"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string", "minLength": 1},
					"target_word_count": {"type": "integer", "minimum": 100, "maximum": 10000},
					"sections": {
						"type": "array",
						"minItems": 1,
						"maxItems": 20,
						"items": {
							"type": "object",
							"required": ["heading", "purpose"],
							"properties": {
								"heading": {"type": "string", "minLength": 1},
								"purpose": {"type": "string", "minLength": 1}
							}
						}
					}
				}
			}
		}
	}
}`)

	ContentContract = llm.MustContract("content_draft", `{
	"type": "object",
	"required": ["title", "meta_description", "slug", "sections", "faq"],
	"properties": {
		"title": {"type": "string", "minLength": 1, "maxLength": 200},
		"meta_description": {"type": "string", "minLength": 1, "maxLength": 320},
		"slug": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$", "maxLength": 120},
		"sections": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["heading", "body"],
				"properties": {
					"heading": {"type": "string", "minLength": 1},
					"body": {"type": "string", "minLength": 1}
				}
			}
		},
		"faq": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["question", "answer"],
				"properties": {
					"question": {"type": "string", "minLength": 1},
					"answer": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`)

	ApprovalContract = llm.MustContract("approval_result", `{
	"type": "object",
	"required": ["approved", "reasons", "risk_flags"],
	"properties": {
		"approved": {"type": "boolean"},
		"reasons": {"type": "array", "items": {"type": "string"}},
		"risk_flags": {"type": "array", "items": {"type": "string"}},
		"suggested_fix": {"type": "string"}
	}
}`)
)
