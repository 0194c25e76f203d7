package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeStorage is used when a persisted collection cannot be read or written
	ErrCodeStorage = "ERR_STORAGE"
	// ErrCodeUpstream is used when an external collaborator call fails
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeConfirmationRequired is used when a destructive operation
	// lacks its confirmation token
	ErrCodeConfirmationRequired = "ERR_CONFIRMATION_REQUIRED"
)

// Resource and state error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeInvalidTransition is used when a status change is not allowed
	// from the current state
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
)

// Authentication error codes
const (
	// ErrCodeWebhookSignature is used when a webhook payload fails
	// signature verification
	ErrCodeWebhookSignature = "ERR_WEBHOOK_SIGNATURE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeStorage:  http.StatusInternalServerError,
	ErrCodeUpstream: http.StatusInternalServerError,

	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeInvalidJSON:          http.StatusBadRequest,
	ErrCodeConfirmationRequired: http.StatusBadRequest,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,

	ErrCodeWebhookSignature: http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"STORAGE":               ErrCodeStorage,
	"INVALID_TRANSITION":    ErrCodeInvalidTransition,
	"DOCUMENT_GENERATION":   ErrCodeUpstream,
	"CONFIRMATION_REQUIRED": ErrCodeConfirmationRequired,
	"INVALID_INPUT":         ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
