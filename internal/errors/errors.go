package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return &APIError{
		Code:    ErrUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return &APIError{
		Code:    ErrForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Conflict creates a CONFLICT error
func Conflict(resource string) *APIError {
	return &APIError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s already exists or is in an invalid state", resource),
		Status:  http.StatusConflict,
	}
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusUnprocessableEntity,
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// PermissionDenied creates a PERMISSION_DENIED error. Camera, microphone
// and location denials are expected and carry a retry affordance for the
// caller, so they never escalate past the operation that hit them.
func PermissionDenied(device string) *APIError {
	return &APIError{
		Code:    ErrPermissionDenied,
		Message: fmt.Sprintf("access to %s was denied", device),
		Status:  http.StatusForbidden,
	}
}

// ServiceFailure creates a SERVICE_FAILURE error for a failed call to the
// generative content service. Prior UI state stays intact; no retry.
func ServiceFailure(operation string, cause error) *APIError {
	e := &APIError{
		Code:    ErrServiceFailure,
		Message: fmt.Sprintf("%s failed", operation),
		Status:  http.StatusBadGateway,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// EmptyResult creates an EMPTY_RESULT soft failure: the service call
// succeeded but returned nothing usable.
func EmptyResult(operation string) *APIError {
	return &APIError{
		Code:    ErrEmptyResult,
		Message: fmt.Sprintf("%s returned no usable content", operation),
		Status:  http.StatusOK,
	}
}

// DecodeFailure creates a DECODE_FAILURE error. Fatal for the single clip
// that produced it; other in-flight state is unaffected.
func DecodeFailure(what string, cause error) *APIError {
	e := &APIError{
		Code:    ErrDecodeFailure,
		Message: fmt.Sprintf("failed to decode %s", what),
		Status:  http.StatusUnprocessableEntity,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// KeyMissing creates a KEY_MISSING error, which triggers the key-selection
// flow on the client.
func KeyMissing() *APIError {
	return &APIError{
		Code:    ErrKeyMissing,
		Message: "no API key configured for the generative service",
		Status:  http.StatusUnauthorized,
	}
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return &APIError{
		Code:    ErrServiceUnavail,
		Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Status:  http.StatusServiceUnavailable,
	}
}

// Timeout creates a TIMEOUT error
func Timeout(operation string) *APIError {
	return &APIError{
		Code:    ErrTimeout,
		Message: fmt.Sprintf("%s timed out", operation),
		Status:  http.StatusGatewayTimeout,
	}
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}
