package apperror

import "net/http"

// Kind tags exposed to API callers alongside the message.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindForbidden    = "forbidden"
	KindUnauthorized = "unauthorized"
	KindBadGateway   = "upstream_error"
	KindInternal     = "internal_error"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind returns the taxonomy tag derived from the status code.
func (e *AppError) Kind() string {
	switch e.Code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusBadGateway:
		return KindBadGateway
	default:
		return KindInternal
	}
}

// Is makes errors.Is match on code and message, so wrapped sentinels still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation is malformed or constraint-violating input.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound covers both missing entities and entities the caller does not own.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Conflict is a request that collides with existing state.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// Forbidden is a role mismatch on an operation whose existence is not secret.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}
