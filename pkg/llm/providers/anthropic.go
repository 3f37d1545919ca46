package providers

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// Anthropic implements llm.Provider with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates an Anthropic provider.
func NewAnthropic(apiKey, model string) (*Anthropic, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if model == "" {
		model = DefaultAnthropicModel
	}

	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model:  anthropic.Model(model),
	}, nil
}

func (a *Anthropic) Name() string {
	return "anthropic:" + string(a.model)
}

func (a *Anthropic) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	maxTokens := int64(req.Params.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	system := systemPrompt
	if req.JSONMode {
		system += " " + jsonOnlyInstruction
	}

	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Params.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return llm.Response{}, err
	}

	var text strings.Builder

	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	return llm.Response{Text: text.String(), Model: string(resp.Model)}, nil
}
