package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBundleID indicates an id outside the safe character set.
	ErrInvalidBundleID = errors.New("invalid bundle id")

	// ErrInvalidBundle indicates a bundle that fails the bundle contract.
	ErrInvalidBundle = errors.New("invalid bundle")
)

// BundleError wraps bundle storage errors with additional context.
type BundleError struct {
	Op       string // Operation being performed (e.g., "Get", "Save")
	BundleID string
	Err      error
	Message  string
}

func (e *BundleError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for bundle %s: %s (%v)", e.Op, e.BundleID, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for bundle %s: %v", e.Op, e.BundleID, e.Err)
}

func (e *BundleError) Unwrap() error {
	return e.Err
}

func (e *BundleError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewBundleError creates a new bundle error with context.
func NewBundleError(op, bundleID string, err error) *BundleError {
	return &BundleError{
		Op:       op,
		BundleID: bundleID,
		Err:      err,
	}
}

// IsInvalidBundleID checks if an error indicates an unsafe bundle id.
func IsInvalidBundleID(err error) bool {
	return errors.Is(err, ErrInvalidBundleID)
}

// IsInvalidBundle checks if an error indicates a bundle failing its contract.
func IsInvalidBundle(err error) bool {
	return errors.Is(err, ErrInvalidBundle)
}
