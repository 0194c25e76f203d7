package rendering

import (
	"context"
	"time"
)

// RenderRequest describes an authenticated page to capture as PDF
type RenderRequest struct {
	// URL of the page to render
	URL string
	// Token is set as a session cookie before navigation
	Token string
	// CookieDomain the token cookie is scoped to
	CookieDomain string
	// OutputPath receives the rendered PDF
	OutputPath string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// OutputPath is where the PDF was written
	OutputPath string
	// Bytes is the size of the rendered PDF
	Bytes int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering web pages to PDF
type PDFRenderer interface {
	// Render captures a page as a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidURL    = "INVALID_URL"
	ErrCodeStorageFailed = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
