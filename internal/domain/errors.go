package domain

import "fmt"

// FieldError reports a constructor invariant violation on a single field.
type FieldError struct {
	Field  string
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// ErrFieldRequired builds a missing-field error.
func ErrFieldRequired(field string) error {
	return &FieldError{Field: field}
}

// ErrFieldInvalid builds an invalid-field error.
func ErrFieldInvalid(field, detail string) error {
	return &FieldError{Field: field, Detail: detail}
}
