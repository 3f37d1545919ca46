// Package providers provides the model-provider clients behind llm.Provider.
package providers

import (
	"context"
	"errors"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI implements llm.Provider with the official openai-go SDK (chat completions).
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI provider. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAI) Name() string {
	return "openai:" + o.model
}

func (o *OpenAI) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Params.Temperature),
	}

	if req.Params.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.Params.MaxTokens))
	}

	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.Response{}, err
	}

	if len(resp.Choices) == 0 {
		return llm.Response{Model: resp.Model}, errors.New("openai: empty choices")
	}

	return llm.Response{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
	}, nil
}
