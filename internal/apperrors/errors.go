package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is known but lacks the role for the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an unexpected failure should not leak details to the caller.
var ErrInternal = errors.New("internal error")

// ErrNoRateAvailable indicates that no direct, inverse or pivot path exists between two currencies.
var ErrNoRateAvailable = errors.New("no exchange rate available")

// ErrPartialWrite indicates a multi-row write whose outcome is unknown.
// Callers should re-read the resource before retrying.
var ErrPartialWrite = errors.New("write outcome unknown")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError with the given code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// StatusCode maps an error chain onto an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNoRateAvailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrPartialWrite):
		return http.StatusServiceUnavailable
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
