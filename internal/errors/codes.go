package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
	ErrTimeout        ErrorCode = "TIMEOUT"

	// Client-core failure taxonomy. Permission denials and empty AI
	// results are expected, recoverable conditions; decode failures are
	// fatal for the single clip that produced them.
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrServiceFailure   ErrorCode = "SERVICE_FAILURE"
	ErrEmptyResult      ErrorCode = "EMPTY_RESULT"
	ErrDecodeFailure    ErrorCode = "DECODE_FAILURE"
	ErrKeyMissing       ErrorCode = "KEY_MISSING"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrNotFound:       http.StatusNotFound,
	ErrUnauthorized:   http.StatusUnauthorized,
	ErrForbidden:      http.StatusForbidden,
	ErrConflict:       http.StatusConflict,
	ErrValidation:     http.StatusUnprocessableEntity,
	ErrBadRequest:     http.StatusBadRequest,
	ErrInternalError:  http.StatusInternalServerError,
	ErrAlreadyExists:  http.StatusConflict,
	ErrServiceUnavail: http.StatusServiceUnavailable,
	ErrTimeout:        http.StatusGatewayTimeout,

	ErrPermissionDenied: http.StatusForbidden,
	ErrServiceFailure:   http.StatusBadGateway,
	ErrEmptyResult:      http.StatusOK,
	ErrDecodeFailure:    http.StatusUnprocessableEntity,
	ErrKeyMissing:       http.StatusUnauthorized,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
