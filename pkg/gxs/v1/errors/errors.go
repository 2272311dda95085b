package errors

import (
	"errors"
	"fmt"
)

// --- GXS Core Error Types ---

// ConfigError represents an error encountered while loading or parsing a suite
// file, or while applying engine and search options (e.g., a non-positive node budget).
type ConfigError struct {
	Message string
	Cause   error
}

func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Message: message, Cause: cause}
}
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}
func (e *ConfigError) Unwrap() error { return e.Cause }

// ValidationError indicates that some input (e.g., suite structure, schema
// version, a case referring to an unknown room) failed validation checks.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
func (e *ValidationError) Unwrap() error { return e.Cause }

// Domain operations that can fail during a search.
const (
	OpPossibleActions = "possible_actions"
	OpSuccessor       = "successor"
)

// DomainError is a fatal error raised by a Problem while enumerating actions
// or computing a successor. The search stops at the first one; it is never retried.
type DomainError struct {
	Operation   string // OpPossibleActions or OpSuccessor
	Fingerprint string // Fingerprint of the state being expanded
	Action      string // Printed action, empty for OpPossibleActions
	Cause       error
}

func NewDomainError(operation, fingerprint, action string, cause error) *DomainError {
	return &DomainError{Operation: operation, Fingerprint: fingerprint, Action: action, Cause: cause}
}
func (e *DomainError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("domain error in %s (action %s) at state %s: %v", e.Operation, e.Action, e.Fingerprint, e.Cause)
	}
	return fmt.Sprintf("domain error in %s at state %s: %v", e.Operation, e.Fingerprint, e.Cause)
}
func (e *DomainError) Unwrap() error { return e.Cause }

// IsDomainError checks if an error is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// NotFoundError indicates that a named entry (heuristic, cost function, case,
// strategy) could not be found.
type NotFoundError struct {
	Kind string // e.g., "heuristic", "case"
	Name string
}

func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}
