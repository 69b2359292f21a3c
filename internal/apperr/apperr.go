// Package apperr holds the error kinds shared by the menu and admin services.
package apperr

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired is returned by destructive operations that were not confirmed.
var ErrConfirmationRequired = errors.New("confirmation required")

// ValidationError is a user-facing rejection of input. The operation that
// returned it performed no write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
