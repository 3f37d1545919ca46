// Package failure provides the closed error taxonomy shared by the invoker,
// the admission layer and the HTTP boundary.
package failure

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies every fault a stage can produce. The set is closed:
// callers switch on it exhaustively.
type Kind int8

const (
	// Internal is the zero value so that an unclassified error never
	// masquerades as a caller or provider fault.
	Internal Kind = iota
	ConfigMissing
	Timeout
	InvalidPayload
	OutputContractViolation
	UpstreamFailure
	CallerValidation
	AdmissionDenied
)

// Kinds lists every member of the taxonomy.
var Kinds = []Kind{
	Internal,
	ConfigMissing,
	Timeout,
	InvalidPayload,
	OutputContractViolation,
	UpstreamFailure,
	CallerValidation,
	AdmissionDenied,
}

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case ConfigMissing:
		return "config_missing"
	case Timeout:
		return "timeout"
	case InvalidPayload:
		return "invalid_payload"
	case OutputContractViolation:
		return "output_contract_violation"
	case UpstreamFailure:
		return "upstream_failure"
	case CallerValidation:
		return "caller_validation"
	case AdmissionDenied:
		return "admission_denied"
	default:
		return "unknown"
	}
}

// Violation is one field of an output or input contract that failed.
type Violation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// Error is the single error type crossing component boundaries.
type Error struct {
	Kind    Kind
	Op      string // Operation that failed, e.g. "llm.Invoke"
	Message string // Safe, human-readable detail
	Err     error  // Underlying cause, never rendered to callers

	// Violations holds field-level contract failures. It is deliberately
	// excluded from Error() and from JSON so that logging the error whole
	// does not leak generated content field by field.
	Violations []Violation `json:"-"`

	// RetryAfter is set for AdmissionDenied.
	RetryAfter time.Duration `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s (%v)", e.Op, e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation creates a CallerValidation error.
func Validation(op, message string) *Error {
	return New(CallerValidation, op, message)
}

// Denied creates an AdmissionDenied error with a retry hint.
func Denied(op string, retryAfter time.Duration) *Error {
	return &Error{
		Kind:       AdmissionDenied,
		Op:         op,
		Message:    "rate limit exceeded",
		RetryAfter: retryAfter,
	}
}

// KindOf returns the kind of err, or Internal if err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	return Internal
}

// Is reports whether err is a failure of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}

	return fe.Kind == kind
}

// ViolationsOf returns the contract violations attached to err, if any.
func ViolationsOf(err error) []Violation {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Violations
	}

	return nil
}

// RetryAfterOf returns the retry hint attached to err, if any.
func RetryAfterOf(err error) time.Duration {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.RetryAfter
	}

	return 0
}
