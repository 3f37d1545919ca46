// Package render exports a published bundle as Markdown, HTML or YAML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// Bundle renders bundle in format.
func Bundle(bundle *models.ResultBundle, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(bundle, "", "  ")
	case FormatYAML:
		return YAML(bundle)
	case FormatMarkdown:
		return []byte(Markdown(bundle.Draft)), nil
	case FormatHTML:
		return HTML(bundle.Draft)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Markdown renders the draft as a Markdown page.
func Markdown(draft models.ContentDraft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", draft.Title)
	fmt.Fprintf(&b, "> %s\n", draft.MetaDescription)

	for _, section := range draft.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", section.Heading, strings.TrimSpace(section.Body))
	}

	if len(draft.FAQ) > 0 {
		b.WriteString("\n## FAQ\n")

		for _, faq := range draft.FAQ {
			fmt.Fprintf(&b, "\n### %s\n\n%s\n", faq.Question, strings.TrimSpace(faq.Answer))
		}
	}

	return b.String()
}

// HTML renders the draft's Markdown to HTML.
func HTML(draft models.ContentDraft) ([]byte, error) {
	var buf bytes.Buffer

	if err := goldmark.Convert([]byte(Markdown(draft)), &buf); err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}

	return buf.Bytes(), nil
}

// YAML renders the bundle with the same field names as its JSON form.
func YAML(bundle *models.ResultBundle) ([]byte, error) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bundle: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bundle: %w", err)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal yaml: %w", err)
	}

	return out, nil
}
