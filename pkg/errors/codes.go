// Package errors provides error codes for uapush
package errors

// ErrorCode represents a uapush error code
type ErrorCode string

// Validation Error Codes
const (
	// ErrInvalidType indicates a supplied value has the wrong shape
	ErrInvalidType ErrorCode = "INVALID_TYPE"

	// ErrInvalidValue indicates a value outside its allowed domain
	ErrInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrMissingField indicates a mandatory field was not supplied
	ErrMissingField ErrorCode = "MISSING_FIELD"

	// ErrEmptyPayload indicates a composite payload ended up with no fields
	ErrEmptyPayload ErrorCode = "EMPTY_PAYLOAD"
)

// Configuration Error Codes
const (
	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"

	// ErrMissingCredentials indicates the app key or master secret is missing
	ErrMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
)

// Transport Error Codes
const (
	// ErrRequestFailed indicates the API answered with a non-2xx status
	ErrRequestFailed ErrorCode = "REQUEST_FAILED"

	// ErrUnauthorized indicates the API rejected the credentials
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrConnectionFailed indicates the request never got a response
	ErrConnectionFailed ErrorCode = "CONNECTION_FAILED"

	// ErrSerializationFailed indicates a request body could not be encoded
	ErrSerializationFailed ErrorCode = "SERIALIZATION_FAILED"

	// ErrDeserializationFailed indicates a response body could not be decoded
	ErrDeserializationFailed ErrorCode = "DESERIALIZATION_FAILED"
)

// Cache Error Codes
const (
	// ErrCacheFailed indicates a response cache operation failed
	ErrCacheFailed ErrorCode = "CACHE_FAILED"
)

// System Error Codes
const (
	// ErrInternal indicates an internal error
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// Error categories
const (
	CategoryValidation    = "validation"
	CategoryConfiguration = "configuration"
	CategoryTransport     = "transport"
	CategoryCache         = "cache"
	CategorySystem        = "system"
)

// ErrorCodeInfo provides information about an error code
type ErrorCodeInfo struct {
	Code        ErrorCode `json:"code"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Temporary   bool      `json:"temporary"`
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code ErrorCode) ErrorCodeInfo {
	info, exists := errorCodeInfoMap[code]
	if !exists {
		return ErrorCodeInfo{
			Code:        code,
			Category:    "unknown",
			Description: "Unknown error code",
		}
	}
	return info
}

// GetCategory returns the category of an error code
func GetCategory(code ErrorCode) string {
	return GetErrorCodeInfo(code).Category
}

// IsTemporaryCode reports whether a code describes a condition that may clear
// on its own. uapush never retries; callers may.
func IsTemporaryCode(code ErrorCode) bool {
	return GetErrorCodeInfo(code).Temporary
}

var errorCodeInfoMap = map[ErrorCode]ErrorCodeInfo{
	ErrInvalidType: {
		Code: ErrInvalidType, Category: CategoryValidation, Description: "Value has the wrong type or shape",
	},
	ErrInvalidValue: {
		Code: ErrInvalidValue, Category: CategoryValidation, Description: "Value is outside its allowed domain",
	},
	ErrMissingField: {
		Code: ErrMissingField, Category: CategoryValidation, Description: "Required field is missing",
	},
	ErrEmptyPayload: {
		Code: ErrEmptyPayload, Category: CategoryValidation, Description: "Payload may not be empty",
	},

	ErrInvalidConfig: {
		Code: ErrInvalidConfig, Category: CategoryConfiguration, Description: "Invalid configuration provided",
	},
	ErrMissingCredentials: {
		Code: ErrMissingCredentials, Category: CategoryConfiguration, Description: "App key or master secret is missing",
	},

	ErrRequestFailed: {
		Code: ErrRequestFailed, Category: CategoryTransport, Description: "API request failed",
	},
	ErrUnauthorized: {
		Code: ErrUnauthorized, Category: CategoryTransport, Description: "API rejected the credentials",
	},
	ErrConnectionFailed: {
		Code: ErrConnectionFailed, Category: CategoryTransport, Description: "Failed to reach the API",
		Temporary: true,
	},
	ErrSerializationFailed: {
		Code: ErrSerializationFailed, Category: CategoryTransport, Description: "Request body could not be encoded",
	},
	ErrDeserializationFailed: {
		Code: ErrDeserializationFailed, Category: CategoryTransport, Description: "Response body could not be decoded",
	},

	ErrCacheFailed: {
		Code: ErrCacheFailed, Category: CategoryCache, Description: "Response cache operation failed",
		Temporary: true,
	},

	ErrInternal: {
		Code: ErrInternal, Category: CategorySystem, Description: "Internal error",
	},
}

// GetErrorCodesByCategory returns error codes for a specific category
func GetErrorCodesByCategory(category string) []ErrorCode {
	var codes []ErrorCode
	for code, info := range errorCodeInfoMap {
		if info.Category == category {
			codes = append(codes, code)
		}
	}
	return codes
}
