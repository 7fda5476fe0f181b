package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *PushError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrInvalidConfig, "invalid configuration"),
			expected: "INVALID_CONFIG: invalid configuration",
		},
		{
			name:     "validation error",
			err:      NewValueError("ios", "priority", "iOS priority must be set to one of 5 or 10", 7),
			expected: "INVALID_VALUE: iOS priority must be set to one of 5 or 10 (component: ios, field: priority)",
		},
		{
			name:     "api error",
			err:      New(ErrRequestFailed, "Could not parse request body").WithStatus(400).WithAPIError(40001, nil),
			expected: "REQUEST_FAILED: Could not parse request body (status: 400, error_code: 40001)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestPushError_Is(t *testing.T) {
	err := NewMissingFieldError("interactive", "type", "'interactive' must have a type attribute")

	assert.True(t, errors.Is(err, New(ErrMissingField, "")))
	assert.False(t, errors.Is(err, New(ErrInvalidValue, "")))

	wrapped := fmt.Errorf("building notification: %w", err)
	assert.True(t, errors.Is(wrapped, New(ErrMissingField, "")))
}

func TestPushError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, ErrConnectionFailed, "request failed")

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"type error", NewTypeError("actions", "open", "open must be a dictionary", 1), IsTypeError, true},
		{"value error", NewValueError("style", "type", "bad style", "x"), IsValueError, true},
		{"missing field", NewMissingFieldError("message", "title", "title is required"), IsMissingField, true},
		{"empty payload", NewEmptyPayloadError("notification", "empty"), IsEmptyPayload, true},
		{"validation category", NewValueError("ios", "badge", "bad", "x"), IsValidationError, true},
		{"config is not validation", NewConfigError("bad"), IsValidationError, false},
		{"config category", New(ErrMissingCredentials, "no key"), IsConfigError, true},
		{"api error", New(ErrUnauthorized, "bad creds").WithStatus(401), IsAPIError, true},
		{"plain error", errors.New("plain"), IsValueError, false},
		{"wrapped", fmt.Errorf("ctx: %w", NewValueError("a", "b", "c", nil)), IsValueError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestExtraction(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewValueError("android", "icon_color", "icon_color must be in format #rrggbb", "red"))

	assert.Equal(t, ErrInvalidValue, GetErrorCode(err))
	assert.Equal(t, "icon_color", GetField(err))
	assert.Equal(t, ErrInternal, GetErrorCode(errors.New("plain")))
	assert.Empty(t, GetField(errors.New("plain")))

	apiErr := New(ErrRequestFailed, "boom").WithStatus(503)
	assert.Equal(t, 503, GetStatusCode(apiErr))
	assert.True(t, apiErr.IsTemporary())
	assert.False(t, New(ErrRequestFailed, "bad").WithStatus(400).IsTemporary())
}

func TestPushError_MarshalJSON(t *testing.T) {
	err := Wrap(errors.New("eof"), ErrDeserializationFailed, "decode response").WithStatus(200)

	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "DESERIALIZATION_FAILED", decoded["code"])
	assert.Equal(t, "eof", decoded["cause_message"])
	assert.EqualValues(t, 200, decoded["status_code"])
}

func TestGetErrorCodeInfo(t *testing.T) {
	assert.Equal(t, CategoryValidation, GetCategory(ErrInvalidType))
	assert.Equal(t, CategoryTransport, GetCategory(ErrRequestFailed))
	assert.Equal(t, "unknown", GetCategory(ErrorCode("NOPE")))
	assert.True(t, IsTemporaryCode(ErrConnectionFailed))
	assert.False(t, IsTemporaryCode(ErrInvalidValue))

	codes := GetErrorCodesByCategory(CategoryValidation)
	assert.ElementsMatch(t, []ErrorCode{ErrInvalidType, ErrInvalidValue, ErrMissingField, ErrEmptyPayload}, codes)
}
