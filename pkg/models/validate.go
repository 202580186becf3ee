package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError reports a record that is missing required attributes. It is
// raised at construction time, before any storage round trip.
type ValidationError struct {
	Index  int // position in the batch, -1 for single records
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid record at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid record: %s", e.Reason)
}

// Validate checks a single record's required fields.
func Validate(value any) error {
	if err := validate.Struct(value); err != nil {
		return &ValidationError{Index: -1, Reason: validationReason(err)}
	}
	return nil
}

// ValidateBatch checks every record of a batch, failing on the first invalid
// one with its batch position.
func ValidateBatch[T any](records []T) error {
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return &ValidationError{Index: i, Reason: validationReason(err)}
		}
	}
	return nil
}

func validationReason(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		msg := ""
		for _, fe := range verrs {
			if msg != "" {
				msg += "; "
			}
			msg += fmt.Sprintf("field '%s' failed rule '%s'", fe.StructField(), fe.Tag())
		}
		return msg
	}
	return err.Error()
}
