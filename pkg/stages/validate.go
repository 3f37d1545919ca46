package stages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
)

// CallerError converts a validation fault in caller input into a
// CallerValidation failure whose message lists the offending fields.
func CallerError(op string, err error) error {
	if err == nil {
		return nil
	}

	fe := &failure.Error{Kind: failure.CallerValidation, Op: op, Err: err}

	var (
		validationErrors validator.ValidationErrors
		indexErr         *models.IndexError
	)

	switch {
	case errors.As(err, &validationErrors):
		fields := make([]string, 0, len(validationErrors))

		for _, fieldErr := range validationErrors {
			fe.Violations = append(fe.Violations, failure.Violation{
				Field:       fieldPath(fieldErr.Namespace()),
				Description: describe(fieldErr),
			})
			fields = append(fields, fieldPath(fieldErr.Namespace())+" "+describe(fieldErr))
		}

		fe.Message = "invalid request: " + strings.Join(fields, "; ")
	case errors.As(err, &indexErr):
		fe.Message = "invalid request: " + indexErr.Error()
	case errors.Is(err, models.ErrNotApproved):
		fe.Message = "invalid request: the draft has not been approved"
	default:
		fe.Message = "invalid request"
	}

	return fe
}

func validateInput(op string, v any) error {
	return CallerError(op, models.Validate(v))
}

func checkIndex(op, field string, index, length int) error {
	return CallerError(op, models.CheckIndex(field, index, length))
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fieldErr.Param())
	default:
		return "failed " + fieldErr.Tag()
	}
}
