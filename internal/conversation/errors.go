package conversation

import "errors"

// ErrInvalidInput marks step input that failed validation. It is recovered
// locally: the machine re-prompts and neither session data nor the step
// pointer change.
var ErrInvalidInput = errors.New("invalid step input")

// ValidationError carries the message key (and args) to re-prompt with.
type ValidationError struct {
	Key  string
	Args []interface{}
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Key }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(key string, args ...interface{}) error {
	return &ValidationError{Key: key, Args: args}
}
