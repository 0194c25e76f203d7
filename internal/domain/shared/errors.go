package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrStorage              = NewDomainError("STORAGE", "Persisted collection unreadable or malformed")
	ErrInvalidTransition    = NewDomainError("INVALID_TRANSITION", "Status transition not allowed")
	ErrDocumentGeneration   = NewDomainError("DOCUMENT_GENERATION", "Document provider could not produce a document")
	ErrConfirmationRequired = NewDomainError("CONFIRMATION_REQUIRED", "Explicit confirmation token required")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
)

// UpstreamErrorKind classifies upstream failures
type UpstreamErrorKind string

const (
	UpstreamKindFailure UpstreamErrorKind = "failure"
	UpstreamKindTimeout UpstreamErrorKind = "timeout"
)

// UpstreamError represents a failure of an external collaborator call.
// Kind distinguishes deadline expiries from other failures.
type UpstreamError struct {
	Service string // "stripe", "adobe-sign", "google-docs", "renderer"
	Kind    UpstreamErrorKind
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: upstream %s: %v", e.Service, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: upstream %s", e.Service, e.Kind)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NewUpstreamError wraps a collaborator failure
func NewUpstreamError(service string, cause error) *UpstreamError {
	return &UpstreamError{Service: service, Kind: UpstreamKindFailure, Cause: cause}
}

// NewUpstreamTimeout wraps a collaborator deadline expiry
func NewUpstreamTimeout(service string, cause error) *UpstreamError {
	return &UpstreamError{Service: service, Kind: UpstreamKindTimeout, Cause: cause}
}
