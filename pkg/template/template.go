// Package template renders the text/template prompts sent to model providers.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Funcs are available to every prompt.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"now": func() string {
			return time.Now().UTC().Format(time.RFC3339)
		},
		"json": func(v any) (string, error) {
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return "", err
			}

			return string(data), nil
		},
		"quote": func(s string) string {
			// Keeps user input on one line and inside its quotes.
			s = strings.ReplaceAll(s, "\n", " ")

			return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
		},
		"join": strings.Join,
		"inc": func(i int) int {
			return i + 1
		},
	}
}

// Prompt is a parsed prompt template.
type Prompt struct {
	tmpl *template.Template
}

// Parse parses a named prompt.
func Parse(name, text string) (*Prompt, error) {
	tmpl, err := template.New(name).Funcs(Funcs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	return &Prompt{tmpl: tmpl}, nil
}

// MustParse is Parse for package-level prompts.
func MustParse(name, text string) *Prompt {
	p, err := Parse(name, text)
	if err != nil {
		panic(err)
	}

	return p
}

// Name returns the prompt's name.
func (p *Prompt) Name() string {
	return p.tmpl.Name()
}

// Render executes the prompt and trims surrounding whitespace.
func (p *Prompt) Render(data any) (string, error) {
	var buf strings.Builder

	err := p.tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", p.tmpl.Name(), err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// Render parses and executes templateStr in one step.
func Render(templateStr string, data any) (string, error) {
	p, err := Parse("inline", templateStr)
	if err != nil {
		return "", err
	}

	return p.Render(data)
}
