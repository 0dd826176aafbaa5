// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrClosed          = errors.New("closed")

	// Persistence errors
	ErrPersistence = errors.New("persistence error")
	ErrTimeout     = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "tracker", "pomodoro"
	Op      string // Operation that failed, e.g., "AddSession", "Start"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Tracker domain errors
var (
	ErrSessionNotFound    = NewDomainError("tracker", "FindSession", ErrNotFound, "session not found")
	ErrTopicNotFound      = NewDomainError("tracker", "FindTopic", ErrNotFound, "topic not found")
	ErrEmptyTopicName     = NewDomainError("tracker", "Validate", ErrEmptyValue, "topic name cannot be empty")
	ErrInvalidTopicStatus = NewDomainError("tracker", "Validate", ErrInvalidInput, "invalid topic status")
	ErrNegativeDuration   = NewDomainError("tracker", "Validate", ErrNegativeValue, "duration cannot be negative")
	ErrNegativeExercises  = NewDomainError("tracker", "Validate", ErrNegativeValue, "exercises cannot be negative")
	ErrNegativePages      = NewDomainError("tracker", "Validate", ErrNegativeValue, "pages cannot be negative")
	ErrNegativeGoal       = NewDomainError("tracker", "SetGoals", ErrNegativeValue, "goal minutes cannot be negative")
	ErrInvalidSessionDate = NewDomainError("tracker", "Validate", ErrInvalidFormat, "invalid session date")
	ErrUnknownAchievement = NewDomainError("tracker", "Unlock", ErrNotFound, "unknown achievement id")
)

// Pomodoro domain errors
var (
	ErrNoTopicSelected    = NewDomainError("pomodoro", "Start", ErrValidation, "no topic selected")
	ErrTimerNotRunning    = NewDomainError("pomodoro", "Pause", ErrStateTransition, "timer is not running")
	ErrTimerAlreadyActive = NewDomainError("pomodoro", "Start", ErrStateTransition, "timer is already running")
)

// Persistence errors
var (
	ErrSnapshotNotFound = NewDomainError("persistence", "Load", ErrNotFound, "account snapshot not found")
	ErrSnapshotEncode   = NewDomainError("persistence", "Replace", ErrInvalidFormat, "cannot encode account snapshot")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsStateTransition checks if the error is an invalid state transition.
func IsStateTransition(err error) bool {
	return errors.Is(err, ErrStateTransition) || errors.Is(err, ErrInvalidState)
}
