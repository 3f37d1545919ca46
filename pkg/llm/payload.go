package llm

import (
	"encoding/json"
	"strings"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
)

// extractJSON trims the payload, unwraps a surrounding Markdown code fence
// and checks that what remains is well-formed JSON.
func extractJSON(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, failure.New(failure.InvalidPayload, op, "model returned an empty payload")
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(trimmed, "json")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	document := []byte(trimmed)
	if !json.Valid(document) {
		return nil, failure.New(failure.InvalidPayload, op, "model returned malformed JSON")
	}

	return document, nil
}
