package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried in the error_code extension of a problem response.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeDataNotLoaded      = "DATA_NOT_LOADED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
)

// APIError is a handler-level error with a status and a stable code.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError names one rejected query or path parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// ErrServiceUnavailable is returned by endpoints whose backing component is not configured.
var ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")

// ErrValidation rejects a single parameter.
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors rejects several parameters at once.
func NewValidationErrors(errs []ValidationError) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeValidation,
		Message:    "Request validation failed",
		Details:    errs,
	}
}

// NotFoundError reports an unknown resource, e.g. a startup name with no records.
// A non-nil cause becomes the details extension.
func NotFoundError(resource string, cause error) *APIError {
	e := &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NoChartDataError reports a ranking with nothing to plot.
func NoChartDataError(chart string) *APIError {
	return New(http.StatusNotFound, CodeNotFound, fmt.Sprintf("No data to chart for %s", chart))
}

// DataUnavailableError reports that the funding table is not loaded.
func DataUnavailableError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusServiceUnavailable,
		ErrorCode:  CodeDataNotLoaded,
		Message:    "Funding data is not loaded",
		Details:    err.Error(),
	}
}

// MetricsDisabledError is returned by /metrics when the Prometheus exporter is off.
func MetricsDisabledError() *APIError {
	return New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Metrics exporter is disabled")
}
