package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/llm"
)

const (
	systemPrompt        = "You are an SEO strategist. Follow the requested output format exactly."
	jsonOnlyInstruction = "Respond with a single JSON object and nothing else."
)

var (
	// ErrMissingAPIKey is returned when a real provider is selected without its key.
	ErrMissingAPIKey = errors.New("provider API key is not set")

	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Config selects and configures a provider.
type Config struct {
	Name          string // openai, anthropic, gemini or mock
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
	GeminiKey     string
}

// New constructs the provider named by cfg.Name.
func New(ctx context.Context, cfg Config) (llm.Provider, error) {
	var (
		provider llm.Provider
		err      error
	)

	switch strings.ToLower(cfg.Name) {
	case "openai", "":
		provider, err = NewOpenAI(cfg.OpenAIKey, cfg.Model, cfg.OpenAIBaseURL)
	case "anthropic":
		provider, err = NewAnthropic(cfg.AnthropicKey, cfg.Model)
	case "gemini":
		provider, err = NewGemini(ctx, cfg.GeminiKey, cfg.Model)
	case "mock":
		provider = NewMock()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Name, err)
	}

	return provider, nil
}
