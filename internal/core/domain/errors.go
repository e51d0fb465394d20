package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input: non-finite
	// coordinates, unparseable timestamps, unknown time zones.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidInterval indicates a timing window that is not a closed interval.
	// It matches ErrInvalidInput with errors.Is.
	ErrInvalidInterval = fmt.Errorf("%w: invalid interval", ErrInvalidInput)

	// ErrComputationFailure indicates a backend-specific numerical failure.
	ErrComputationFailure = errors.New("computation failure")

	// ErrProviderUnavailable indicates no implementation is registered for a role.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an implementation does not satisfy the
	// capability contract of the role it was registered under.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDemoInProduction indicates demo providers were requested in production.
	ErrDemoInProduction = errors.New("demo providers must be disabled in production")
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ComputationError carries enough context to diagnose a failed calculation.
type ComputationError struct {
	Provider    string
	Body        string
	HouseSystem string
	Latitude    float64
	Err         error
}

func (e *ComputationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, ErrComputationFailure)
	if e.Body != "" {
		msg += fmt.Sprintf(" (body=%s)", e.Body)
	}
	if e.HouseSystem != "" {
		msg += fmt.Sprintf(" (house_system=%s, latitude=%.4f)", e.HouseSystem, e.Latitude)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrComputationFailure.
func (e *ComputationError) Is(target error) bool {
	return target == ErrComputationFailure
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// ProviderUnavailableError is returned when a role has no registered implementation.
type ProviderUnavailableError struct {
	Key  ProviderKey
	Hint string
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %q has not been registered: %s", e.Key, e.Hint)
}

// Is matches ErrProviderUnavailable.
func (e *ProviderUnavailableError) Is(target error) bool {
	return target == ErrProviderUnavailable
}
