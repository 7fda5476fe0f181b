// Package errors provides error types for uapush
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// PushError represents a uapush error with structured information
type PushError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`

	// Validation context: the builder that owns the field and its wire key
	Component string `json:"component,omitempty"`
	Field     string `json:"field,omitempty"`
	Value     any    `json:"-"`

	// API context
	StatusCode   int            `json:"status_code,omitempty"`
	APIErrorCode int            `json:"error_code,omitempty"`
	Details      map[string]any `json:"details,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface
func (e *PushError) Error() string {
	var ctx []string
	if e.Component != "" {
		ctx = append(ctx, "component: "+e.Component)
	}
	if e.Field != "" {
		ctx = append(ctx, "field: "+e.Field)
	}
	if e.StatusCode != 0 {
		ctx = append(ctx, fmt.Sprintf("status: %d", e.StatusCode))
	}
	if e.APIErrorCode != 0 {
		ctx = append(ctx, fmt.Sprintf("error_code: %d", e.APIErrorCode))
	}
	if len(ctx) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(ctx, ", "))
}

// Unwrap returns the underlying cause error
func (e *PushError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error by code
func (e *PushError) Is(target error) bool {
	if targetErr, ok := target.(*PushError); ok {
		return e.Code == targetErr.Code
	}
	return false
}

// MarshalJSON implements json.Marshaler
func (e *PushError) MarshalJSON() ([]byte, error) {
	type Alias PushError
	var cause string
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	return json.Marshal(&struct {
		*Alias
		CauseMessage string `json:"cause_message,omitempty"`
	}{
		Alias:        (*Alias)(e),
		CauseMessage: cause,
	})
}

// WithCause adds a cause error
func (e *PushError) WithCause(cause error) *PushError {
	e.Cause = cause
	return e
}

// WithComponent sets the builder or client component
func (e *PushError) WithComponent(component string) *PushError {
	e.Component = component
	return e
}

// WithField sets the offending wire key
func (e *PushError) WithField(field string) *PushError {
	e.Field = field
	return e
}

// WithValue records the rejected value
func (e *PushError) WithValue(value any) *PushError {
	e.Value = value
	return e
}

// WithStatus sets the HTTP status code
func (e *PushError) WithStatus(status int) *PushError {
	e.StatusCode = status
	return e
}

// WithAPIError sets the error code and details reported by the API
func (e *PushError) WithAPIError(code int, details map[string]any) *PushError {
	e.APIErrorCode = code
	e.Details = details
	return e
}

// IsTemporary returns whether the condition may clear on its own
func (e *PushError) IsTemporary() bool {
	if e.StatusCode >= 500 {
		return true
	}
	return IsTemporaryCode(e.Code)
}

// Constructor functions

// New creates a new PushError
func New(code ErrorCode, message string) *PushError {
	return &PushError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new PushError with formatted message
func Newf(code ErrorCode, format string, args ...any) *PushError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a PushError
func Wrap(err error, code ErrorCode, message string) *PushError {
	return New(code, message).WithCause(err)
}

// Wrapf wraps an existing error with a PushError and formatted message
func Wrapf(err error, code ErrorCode, format string, args ...any) *PushError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Convenience constructors for validation failures

// NewTypeError reports a value of the wrong shape for a builder field
func NewTypeError(component, field, message string, value any) *PushError {
	return New(ErrInvalidType, message).WithComponent(component).WithField(field).WithValue(value)
}

// NewValueError reports a value outside the allowed domain of a builder field
func NewValueError(component, field, message string, value any) *PushError {
	return New(ErrInvalidValue, message).WithComponent(component).WithField(field).WithValue(value)
}

// NewMissingFieldError reports an absent mandatory field
func NewMissingFieldError(component, field, message string) *PushError {
	return New(ErrMissingField, message).WithComponent(component).WithField(field)
}

// NewEmptyPayloadError reports a composite payload with no fields
func NewEmptyPayloadError(component, message string) *PushError {
	return New(ErrEmptyPayload, message).WithComponent(component)
}

// NewConfigError creates a configuration error
func NewConfigError(message string) *PushError {
	return New(ErrInvalidConfig, message)
}

// Error classification functions

func asPushError(err error) (*PushError, bool) {
	var pushErr *PushError
	if stderrors.As(err, &pushErr) {
		return pushErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	if pushErr, ok := asPushError(err); ok {
		return pushErr.Code == code
	}
	return false
}

// IsTypeError checks if error is a type error
func IsTypeError(err error) bool {
	return hasCode(err, ErrInvalidType)
}

// IsValueError checks if error is a value or range error
func IsValueError(err error) bool {
	return hasCode(err, ErrInvalidValue)
}

// IsMissingField checks if error is a missing-required-field error
func IsMissingField(err error) bool {
	return hasCode(err, ErrMissingField)
}

// IsEmptyPayload checks if error is an empty-result error
func IsEmptyPayload(err error) bool {
	return hasCode(err, ErrEmptyPayload)
}

// IsValidationError checks if error belongs to the validation category
func IsValidationError(err error) bool {
	if pushErr, ok := asPushError(err); ok {
		return GetCategory(pushErr.Code) == CategoryValidation
	}
	return false
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if pushErr, ok := asPushError(err); ok {
		return GetCategory(pushErr.Code) == CategoryConfiguration
	}
	return false
}

// IsAPIError checks if error is a failure reported by the API
func IsAPIError(err error) bool {
	return hasCode(err, ErrRequestFailed) || hasCode(err, ErrUnauthorized)
}

// Error extraction functions

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if pushErr, ok := asPushError(err); ok {
		return pushErr.Code
	}
	return ErrInternal
}

// GetField extracts the offending field from a validation error
func GetField(err error) string {
	if pushErr, ok := asPushError(err); ok {
		return pushErr.Field
	}
	return ""
}

// GetStatusCode extracts the HTTP status from an API error
func GetStatusCode(err error) int {
	if pushErr, ok := asPushError(err); ok {
		return pushErr.StatusCode
	}
	return 0
}
