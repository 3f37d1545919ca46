// Package llm provides the single entry point for model calls: deadline
// enforcement, payload parsing, output-contract validation and error
// classification.
package llm

import (
	"context"
	"time"
)

// Preset names a family of provider parameters.
type Preset string

const (
	PresetAnalysis   Preset = "analysis"
	PresetValidation Preset = "validation"
	PresetGeneration Preset = "generation"
)

// DefaultTimeout bounds a model call when neither the call nor the preset
// says otherwise.
const DefaultTimeout = 30 * time.Second

// Params are the provider knobs selected by a preset.
type Params struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Presets returns the built-in preset table.
func Presets() map[Preset]Params {
	return map[Preset]Params{
		PresetAnalysis:   {Temperature: 0.3, MaxTokens: 2048, Timeout: DefaultTimeout},
		PresetValidation: {Temperature: 0, MaxTokens: 1024, Timeout: DefaultTimeout},
		PresetGeneration: {Temperature: 0.7, MaxTokens: 4096, Timeout: DefaultTimeout},
	}
}

// Valid reports whether p is one of the known presets.
func (p Preset) Valid() bool {
	_, ok := Presets()[p]

	return ok
}

// Request is what a Provider receives for one call.
type Request struct {
	Task     string // stage operation name, e.g. "intent_analysis"
	Prompt   string
	Preset   Preset
	Params   Params
	JSONMode bool
}

// Response is the raw provider answer.
type Response struct {
	Text  string
	Model string
}

// Provider is a model-provider client. Implementations should honour ctx,
// but the invoker does not rely on it: a provider that overruns the
// deadline is abandoned.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}
