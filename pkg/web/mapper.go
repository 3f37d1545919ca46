package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/stages"
)

// Mapping is the protocol response chosen for an error.
type Mapping struct {
	Status  int
	Code    string
	Message string
	Kind    failure.Kind
}

// MapError maps any error to its status, code and caller-safe message.
// Only caller validation errors surface their own text.
func MapError(err error) Mapping {
	err = classify(err)
	kind := failure.KindOf(err)

	switch kind {
	case failure.CallerValidation:
		return Mapping{http.StatusBadRequest, failure.CodeValidation, callerMessage(err), kind}
	case failure.AdmissionDenied:
		return Mapping{http.StatusTooManyRequests, failure.CodeRateLimited, "Too many requests, retry later", kind}
	case failure.Timeout:
		return Mapping{http.StatusGatewayTimeout, failure.CodeTimeout, "The model did not answer in time", kind}
	case failure.InvalidPayload:
		return Mapping{http.StatusBadGateway, failure.CodeInvalidJSON, "The model returned malformed JSON", kind}
	case failure.OutputContractViolation:
		return Mapping{
			http.StatusBadGateway, failure.CodeOutputValidation,
			"The model output did not match the expected structure", kind,
		}
	case failure.UpstreamFailure:
		return Mapping{http.StatusBadGateway, failure.CodeUpstream, "The model provider request failed", kind}
	case failure.ConfigMissing:
		return Mapping{
			http.StatusInternalServerError, failure.CodeMissingKey,
			"The server is missing required configuration", kind,
		}
	case failure.Internal:
		return internalMapping()
	default:
		return internalMapping()
	}
}

func internalMapping() Mapping {
	return Mapping{http.StatusInternalServerError, failure.CodeInternal, "Internal server error", failure.Internal}
}

// classify turns raw validation and decoding errors into CallerValidation.
func classify(err error) error {
	var fe *failure.Error
	if errors.As(err, &fe) {
		return err
	}

	var (
		validationErrors validator.ValidationErrors
		syntaxErr        *json.SyntaxError
		typeErr          *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &validationErrors):
		return stages.CallerError("web.Bind", err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return failure.Validation("web.Bind", "invalid JSON body")
	default:
		return err
	}
}

func callerMessage(err error) string {
	var fe *failure.Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}

	return "invalid request"
}
