package failure

// Protocol-level error codes carried in failure envelopes.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeTimeout          = "TIMEOUT"
	CodeInvalidJSON      = "LLM_INVALID_JSON"
	CodeOutputValidation = "LLM_OUTPUT_VALIDATION"
	CodeUpstream         = "UPSTREAM_ERROR"
	CodeMissingKey       = "MISSING_PROVIDER_KEY"
	CodeInternal         = "INTERNAL_ERROR"

	// Edge codes that do not originate from a Kind.
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
)

// KindFromCode rebuilds a Kind from an envelope code. Unknown codes, and
// the edge codes, come back as Internal.
func KindFromCode(code string) Kind {
	switch code {
	case CodeValidation:
		return CallerValidation
	case CodeRateLimited:
		return AdmissionDenied
	case CodeTimeout:
		return Timeout
	case CodeInvalidJSON:
		return InvalidPayload
	case CodeOutputValidation:
		return OutputContractViolation
	case CodeUpstream:
		return UpstreamFailure
	case CodeMissingKey:
		return ConfigMissing
	default:
		return Internal
	}
}
