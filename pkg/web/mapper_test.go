package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMapError_Table(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"caller validation", failure.Validation("op", "keyword is required"), http.StatusBadRequest, failure.CodeValidation},
		{"admission denied", failure.Denied("op", time.Second), http.StatusTooManyRequests, failure.CodeRateLimited},
		{"timeout", failure.New(failure.Timeout, "op", "slow"), http.StatusGatewayTimeout, failure.CodeTimeout},
		{"invalid payload", failure.New(failure.InvalidPayload, "op", "x"), http.StatusBadGateway, failure.CodeInvalidJSON},
		{
			"contract violation", failure.New(failure.OutputContractViolation, "op", "x"),
			http.StatusBadGateway, failure.CodeOutputValidation,
		},
		{"upstream", failure.Wrap(failure.UpstreamFailure, "op", errors.New("503")), http.StatusBadGateway, failure.CodeUpstream},
		{"config missing", failure.New(failure.ConfigMissing, "op", "no key"), http.StatusInternalServerError, failure.CodeMissingKey},
		{"internal", failure.New(failure.Internal, "op", "boom"), http.StatusInternalServerError, failure.CodeInternal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, failure.CodeInternal},
		{"context canceled", context.Canceled, http.StatusInternalServerError, failure.CodeInternal},
		{"json syntax", &json.SyntaxError{}, http.StatusBadRequest, failure.CodeValidation},
		{"raw validator errors", models.Validate(models.IntentRequest{}), http.StatusBadRequest, failure.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping := MapError(tt.err)

			assert.Equal(t, tt.wantStatus, mapping.Status)
			assert.Equal(t, tt.wantCode, mapping.Code)
			assert.NotEmpty(t, mapping.Message)
		})
	}
}

func TestMapError_CoversEveryKind(t *testing.T) {
	seen := map[string]bool{}

	for _, kind := range failure.Kinds {
		mapping := MapError(failure.New(kind, "op", "detail"))

		assert.Equal(t, kind, mapping.Kind)
		assert.Equal(t, kind, failure.KindFromCode(mapping.Code), "code %s must map back to %s", mapping.Code, kind)
		seen[mapping.Code] = true
	}

	assert.Len(t, seen, len(failure.Kinds))
}

func TestMapError_MessagesDoNotLeakCauses(t *testing.T) {
	secret := `{"title":"generated text the provider returned"}`

	for _, kind := range failure.Kinds {
		if kind == failure.CallerValidation {
			continue
		}

		mapping := MapError(&failure.Error{Kind: kind, Op: "op", Message: secret, Err: errors.New(secret)})
		assert.NotContains(t, mapping.Message, "generated text", kind.String())
	}
}

func TestMapError_CallerValidationReportsFields(t *testing.T) {
	mapping := MapError(models.Validate(models.IntentRequest{Keyword: "a"}))

	assert.Contains(t, mapping.Message, "keyword must be at least 2")
}
