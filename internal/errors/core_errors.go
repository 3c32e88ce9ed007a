package errors

import (
	"fmt"
	"strings"
)

// ErrorCategory classifies an error for recovery decisions.
type ErrorCategory string

const (
	// Fatal categories stop the process.
	ErrorCategoryFatal  ErrorCategory = "FATAL"
	ErrorCategoryConfig ErrorCategory = "CONFIG"

	// Recoverable categories: the current cycle is skipped and retried.
	ErrorCategoryNetwork    ErrorCategory = "NETWORK"
	ErrorCategoryTimeout    ErrorCategory = "TIMEOUT"
	ErrorCategoryExchange   ErrorCategory = "EXCHANGE"
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	ErrorCategoryPosition   ErrorCategory = "POSITION"
	ErrorCategoryState      ErrorCategory = "STATE"
	ErrorCategoryTemporary  ErrorCategory = "TEMPORARY"
)

// CoreError is a categorized error with component and operation context.
type CoreError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Retryable  bool
}

// Error implements the error interface.
func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s in %s: %v", e.Category, e.Component, e.Message, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s in %s", e.Category, e.Component, e.Message, e.Operation)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns whether this error can be retried on a later cycle.
func (e *CoreError) IsRetryable() bool {
	return e.Retryable
}

// IsFatal returns whether this error should stop the process. Only
// configuration and startup errors are fatal; every "no trade" outcome
// is an ordinary return value, not an error.
func (e *CoreError) IsFatal() bool {
	return e.Category == ErrorCategoryFatal || e.Category == ErrorCategoryConfig
}

// New creates a categorized error.
func New(category ErrorCategory, component, operation, message string) *CoreError {
	return &CoreError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Retryable: isRetryableCategory(category),
	}
}

// Wrap wraps an existing error with category and context.
func Wrap(err error, category ErrorCategory, component, operation string) *CoreError {
	if err == nil {
		return nil
	}
	return &CoreError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Retryable:  isRetryableCategory(category),
	}
}

// WithRetryable overrides the retryable flag.
func (e *CoreError) WithRetryable(retryable bool) *CoreError {
	e.Retryable = retryable
	return e
}

func isRetryableCategory(category ErrorCategory) bool {
	switch category {
	case ErrorCategoryFatal, ErrorCategoryConfig, ErrorCategoryValidation:
		return false
	default:
		return true
	}
}

// NewValidationError reports invalid input; never retryable.
func NewValidationError(component, operation, message string) *CoreError {
	return New(ErrorCategoryValidation, component, operation, message)
}

// NewConfigError reports malformed or missing configuration; fatal.
func NewConfigError(component, operation, message string) *CoreError {
	return New(ErrorCategoryConfig, component, operation, message)
}

// NewStateError reports an inconsistency between the ledger and a caller's
// view of it. Callers treat it as a defensive no-op plus a loud log entry.
func NewStateError(component, operation, message string) *CoreError {
	return New(ErrorCategoryState, component, operation, message).WithRetryable(false)
}

// NewExternalError reports a market data or notifier failure; the current
// cycle is skipped and retried on the next tick.
func NewExternalError(component, operation string, err error) *CoreError {
	return Wrap(err, ErrorCategoryExchange, component, operation)
}

// Categorize maps a generic error onto a category by inspecting its message.
func Categorize(err error, component, operation string) *CoreError {
	if err == nil {
		return nil
	}
	if coreErr, ok := err.(*CoreError); ok {
		return coreErr
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return Wrap(err, ErrorCategoryTimeout, component, operation)
	case strings.Contains(msg, "connection") || strings.Contains(msg, "dial") || strings.Contains(msg, "dns"):
		return Wrap(err, ErrorCategoryNetwork, component, operation)
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "malformed"):
		return Wrap(err, ErrorCategoryValidation, component, operation)
	default:
		return Wrap(err, ErrorCategoryTemporary, component, operation)
	}
}
