package providers

import (
	"context"
	"fmt"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini implements llm.Provider with the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini provider against the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

func (g *Gemini) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	temperature := float32(req.Params.Temperature)

	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	if req.Params.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.Params.MaxTokens) //nolint:gosec // preset table values
	}

	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return llm.Response{}, err
	}

	if result == nil {
		return llm.Response{Model: g.model}, nil
	}

	model := result.ModelVersion
	if model == "" {
		model = g.model
	}

	return llm.Response{Text: result.Text(), Model: model}, nil
}
