package stages

import "github.com/juliagomezg/seo-decision-engine-sub000/pkg/template"

var (
	intentPrompt = template.MustParse("intent_analysis", `
Analyse the search intent behind a keyword and propose content opportunities.
Keyword: {{ quote .Keyword }}
{{- if .Location }}
Location: {{ quote .Location }}
{{- end }}
{{- if .BusinessType }}
Business type: {{ quote .BusinessType }}
{{- end }}

Return a JSON object with:
- "keyword": the keyword above
- "primary_intent": one of informational, commercial, transactional, navigational, local
- "summary": one paragraph describing what searchers want
- "opportunities": 5 to 10 objects with "title", "description", "content_type",
  "target_audience", "confidence" (low, medium or high) and "rationale"
`)

	opportunityReviewPrompt = template.MustParse("opportunity_validation", `
Review a proposed content opportunity before it is planned.
Keyword: {{ quote .Keyword }}
Primary intent: {{ .Analysis.PrimaryIntent }}
Opportunity:
{{ json .Opportunity }}

Approve it only if it matches the intent and can rank for the keyword.
Return a JSON object with "approved" (boolean), "reasons" (array of strings),
"risk_flags" (array of strings) and, when not approved, "suggested_fix".
`)

	templatePrompt = template.MustParse("template_proposal", `
Propose page structures for an approved content opportunity.
Keyword: {{ quote .Keyword }}
{{- if .Location }}
Location: {{ quote .Location }}
{{- end }}
{{- if .BusinessType }}
Business type: {{ quote .BusinessType }}
{{- end }}
Opportunity:
{{ json .Opportunity }}

Return a JSON object with "templates": 2 to 6 objects with "name",
"description", "sections" (1 to 20 objects with "heading" and "purpose")
and "target_word_count" (100 to 10000).
`)

	templateReviewPrompt = template.MustParse("template_validation", `
Review a page template before content is written from it.
Keyword: {{ quote .Keyword }}
Opportunity:
{{ json .Opportunity }}
Template:
{{ json .Template }}

Approve it only if the sections cover the opportunity without filler.
Return a JSON object with "approved" (boolean), "reasons" (array of strings),
"risk_flags" (array of strings) and, when not approved, "suggested_fix".
`)

	contentPrompt = template.MustParse("content_generation", `
Write a content draft following the approved template.
Keyword: {{ quote .Keyword }}
{{- if .Location }}
Location: {{ quote .Location }}
{{- end }}
{{- if .BusinessType }}
Business type: {{ quote .BusinessType }}
{{- end }}
Opportunity:
{{ json .Opportunity }}
Template:
{{ json .Template }}
{{- if .ImprovementHint }}

The previous draft was rejected. Apply this fix: {{ quote .ImprovementHint }}
{{- end }}

Return a JSON object with "title", "meta_description" (at most 320 characters),
"slug" (lowercase words joined by dashes), "sections" (objects with "heading"
and "body", one per template section) and "faq" (objects with "question" and
"answer").
`)

	contentReviewPrompt = template.MustParse("content_validation", `
Review a content draft before it is published.
Keyword: {{ quote .Keyword }}
Template:
{{ json .Template }}
Draft:
{{ json .Draft }}

Approve it only if it follows the template, answers the intent and makes no
unverifiable claims. Return a JSON object with "approved" (boolean), "reasons"
(array of strings), "risk_flags" (array of strings) and, when not approved,
"suggested_fix".
`)
)
