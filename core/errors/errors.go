package errors

import "fmt"

// ErrorCode identifies a recoverable application error category.
type ErrorCode string

const (
	// Domain errors
	ErrPermissionDenied       ErrorCode = "PERMISSION_DENIED"
	ErrInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrInvalidRange           ErrorCode = "INVALID_RANGE"
	ErrOutOfRange             ErrorCode = "OUT_OF_RANGE"
	ErrConflictsPending       ErrorCode = "CONFLICTS_PENDING"
	ErrDuplicateAssignment    ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrInvalidCandidate       ErrorCode = "INVALID_CANDIDATE"
	ErrEmptySelection         ErrorCode = "EMPTY_SELECTION"
	ErrNotFound               ErrorCode = "NOT_FOUND"
	ErrConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"

	// Transport-level errors
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is the application error returned by services. Details carries
// structured data the caller needs to render a precise message (e.g. the
// pending conflict list, the offending field).
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error wrapping an optional cause.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewAppErrorWithDetails creates an application error carrying structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, details any) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// IsCode reports whether err is an *AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == code
}
