package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
)

// MockModel is the model name reported by the mock provider.
const MockModel = "mock-seo-1"

var keywordLine = regexp.MustCompile(`(?m)^Keyword:\s*"([^"]*)"`)

// ResponderFunc produces the raw text for one request.
type ResponderFunc func(ctx context.Context, req llm.Request) (string, error)

// Mock is a deterministic provider that answers every stage task with a
// contract-valid payload. Gates approve unless a responder says otherwise.
type Mock struct {
	mu         sync.RWMutex
	responders map[string]ResponderFunc
	calls      map[string]int
}

// NewMock creates a mock provider.
func NewMock() *Mock {
	return &Mock{
		responders: make(map[string]ResponderFunc),
		calls:      make(map[string]int),
	}
}

// Respond overrides the answer for one task.
func (m *Mock) Respond(task string, fn ResponderFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responders[task] = fn
}

// Reject makes the gate for task return a rejection with the given fix.
func (m *Mock) Reject(task, reason, suggestedFix string) {
	m.Respond(task, func(context.Context, llm.Request) (string, error) {
		return marshal(models.ApprovalResult{
			Approved:     false,
			Reasons:      []string{reason},
			RiskFlags:    []string{"quality"},
			SuggestedFix: suggestedFix,
		})
	})
}

// Reset removes the override for task.
func (m *Mock) Reset(task string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.responders, task)
}

// Calls returns how many requests task has received.
func (m *Mock) Calls(task string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.calls[task]
}

func (m *Mock) Name() string {
	return "mock:" + MockModel
}

func (m *Mock) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	m.mu.Lock()
	m.calls[req.Task]++
	responder, ok := m.responders[req.Task]
	m.mu.Unlock()

	var (
		text string
		err  error
	)

	if ok {
		text, err = responder(ctx, req)
	} else {
		text, err = fixture(req)
	}

	if err != nil {
		return llm.Response{}, err
	}

	return llm.Response{Text: text, Model: MockModel}, nil
}

func fixture(req llm.Request) (string, error) {
	keyword := "your topic"
	if match := keywordLine.FindStringSubmatch(req.Prompt); match != nil && match[1] != "" {
		keyword = match[1]
	}

	switch req.Task {
	case models.TaskIntentAnalysis:
		return marshal(mockAnalysis(keyword))
	case models.TaskTemplateProposal:
		return marshal(mockProposal(keyword))
	case models.TaskContentGeneration:
		return marshal(mockDraft(keyword))
	case models.TaskOpportunityValidation, models.TaskTemplateValidation, models.TaskContentValidation:
		return marshal(models.ApprovalResult{
			Approved:  true,
			Reasons:   []string{"Matches the search intent for " + keyword},
			RiskFlags: []string{},
		})
	default:
		return "", fmt.Errorf("mock provider has no fixture for task %q", req.Task)
	}
}

func mockAnalysis(keyword string) models.IntentAnalysis {
	kinds := []struct {
		title       string
		contentType string
		confidence  models.Confidence
	}{
		{"Ultimate guide to %s", "guide", models.ConfidenceHigh},
		{"Top 10 %s compared", "listicle", models.ConfidenceHigh},
		{"How to choose %s", "how-to", models.ConfidenceMedium},
		{"%s pricing breakdown", "comparison", models.ConfidenceMedium},
		{"%s for small businesses", "landing page", models.ConfidenceLow},
	}

	opportunities := make([]models.Opportunity, 0, len(kinds))
	for _, k := range kinds {
		opportunities = append(opportunities, models.Opportunity{
			Title:          fmt.Sprintf(k.title, keyword),
			Description:    fmt.Sprintf("A %s answering what searchers of %q want to know.", k.contentType, keyword),
			ContentType:    k.contentType,
			TargetAudience: "buyers researching " + keyword,
			Confidence:     k.confidence,
			Rationale:      "Recurring pattern in the results for this query.",
		})
	}

	return models.IntentAnalysis{
		Keyword:       keyword,
		PrimaryIntent: models.IntentCommercial,
		Summary:       fmt.Sprintf("Searchers of %q are comparing options before a purchase.", keyword),
		Opportunities: opportunities,
	}
}

func mockProposal(keyword string) models.TemplateProposal {
	return models.TemplateProposal{Templates: []models.Template{
		{
			Name:        "Comparison article",
			Description: "Side by side evaluation of the leading options for " + keyword,
			Sections: []models.Section{
				{Heading: "Introduction", Purpose: "Frame the decision"},
				{Heading: "Comparison table", Purpose: "Summarize the options"},
				{Heading: "Verdict", Purpose: "Recommend by use case"},
			},
			TargetWordCount: 1800,
		},
		{
			Name:        "Buyer's guide",
			Description: "Criteria driven guide for choosing " + keyword,
			Sections: []models.Section{
				{Heading: "What to look for", Purpose: "List the criteria"},
				{Heading: "Mistakes to avoid", Purpose: "Address objections"},
			},
			TargetWordCount: 1200,
		},
	}}
}

func mockDraft(keyword string) models.ContentDraft {
	title := titleCase(keyword) + ": A Practical Guide"

	slug := models.Slugify(keyword)
	if slug == "" {
		slug = "guide"
	}

	return models.ContentDraft{
		Title:           title,
		MetaDescription: "Everything you need to know about " + keyword + ", compared and explained.",
		Slug:            slug,
		Sections: []models.DraftSection{
			{Heading: "Introduction", Body: "This guide walks through " + keyword + " step by step."},
			{Heading: "How to decide", Body: "Start from your requirements and budget."},
		},
		FAQ: []models.FAQ{
			{Question: "What is " + keyword + "?", Answer: "A short definition and why it matters."},
		},
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
