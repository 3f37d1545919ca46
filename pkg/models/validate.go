package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so validation messages
// match what callers send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate runs the struct's validate tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// IndexError reports a selection index outside its candidate list.
type IndexError struct {
	Field string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s %d is out of range (have %d candidates)", e.Field, e.Index, e.Len)
}

// CheckIndex returns an *IndexError unless 0 <= index < length.
func CheckIndex(field string, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Field: field, Index: index, Len: length}
	}

	return nil
}
