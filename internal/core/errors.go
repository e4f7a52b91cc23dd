package core

import "errors"

// ErrNotFound covers both a missing entity and an entity owned by another
// user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// ValidationError carries a human-readable reason suitable for a 400 body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
