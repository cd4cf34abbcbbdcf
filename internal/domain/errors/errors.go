package errors

import (
	"net/http"

	"identity/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
// The copy still matches the original under errors.Is.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError carrying the same business error code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// Predefined error types
var (
	// ErrInvalidInput is returned for empty or malformed credentials.
	ErrInvalidInput = NewBaseError(
		http.StatusBadRequest,
		"INVALID_INPUT",
		"Invalid input",
		"",
	)

	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_EMAIL",
		"This email is already registered",
		"",
	)

	// ErrUserNotFound is returned when an operation targets an unknown user id.
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	// ErrBiometricTokenConflict is returned when a biometric token is already held by another user.
	ErrBiometricTokenConflict = NewBaseError(
		http.StatusConflict,
		"BIOMETRIC_TOKEN_CONFLICT",
		"Biometric token is already enrolled",
		"",
	)

	// ErrInfrastructure is the kind matched by every InfrastructureError.
	ErrInfrastructure = NewBaseError(
		http.StatusInternalServerError,
		"INFRASTRUCTURE_ERROR",
		"Service temporarily unavailable",
		"",
	)

	// ErrInternalError is used for failures that carry no AppError.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// InfrastructureError represents a store, hasher or signer failure, implementing the AppError interface
type InfrastructureError struct {
	err     error
	details string
}

// NewInfrastructureError wraps a collaborator failure.
func NewInfrastructureError(err error, details string) AppError {
	return &InfrastructureError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *InfrastructureError) Error() string {
	if e.err == nil {
		return e.details
	}

	return errors.Wrap(e.err, e.details).Error()
}

// Unwrap exposes the underlying cause.
func (e *InfrastructureError) Unwrap() error {
	return e.err
}

// Is makes every InfrastructureError match ErrInfrastructure.
func (e *InfrastructureError) Is(target error) bool {
	return target == ErrInfrastructure
}

// HTTPCode returns the HTTP status code
func (e *InfrastructureError) HTTPCode() int {
	return ErrInfrastructure.HTTPCode()
}

// ErrorCode returns the business error code
func (e *InfrastructureError) ErrorCode() string {
	return ErrInfrastructure.ErrorCode()
}

// Message returns the user-friendly error message
func (e *InfrastructureError) Message() string {
	return ErrInfrastructure.Message()
}

// Details returns detailed error information
func (e *InfrastructureError) Details() string {
	return e.details
}
