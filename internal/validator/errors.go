package validator

import (
	"errors"
	"fmt"
)

// ErrValidation is the base error for the validation subsystem. Every
// typed error below unwraps to it, so callers can catch the whole
// family with errors.Is(err, ErrValidation).
var ErrValidation = errors.New("validation error")

// NotFoundError indicates a referenced validator ID is not registered.
type NotFoundError struct {
	// ValidatorID is the ID that was not found.
	ValidatorID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("validator %q is not registered", e.ValidatorID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrValidation
}

// ConfigurationError indicates malformed or out-of-range configuration,
// including bad file formats on load or save.
type ConfigurationError struct {
	// Field names the offending configuration field, when known.
	Field string
	// Reason describes what is wrong.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

// ResourceError indicates a workspace or temp-file failure.
type ResourceError struct {
	// Path is the filesystem path involved.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error at %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return ErrValidation
}

// ErrNotInitialized is returned when a validator's lifecycle runs
// before Initialize.
var ErrNotInitialized = fmt.Errorf("%w: validator not initialized", ErrValidation)
