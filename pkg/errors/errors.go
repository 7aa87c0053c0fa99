package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/emsvc/employee-service/pkg/i18n"
)

// Sentinel errors, matched with errors.Is through AppError.Unwrap
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("resource not found")
	ErrValidation      = errors.New("validation error")
	ErrStorage         = errors.New("storage failure")
	ErrInternal        = errors.New("internal server error")
)

// Error codes carried in API responses
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeStorageFailure  = "STORAGE_FAILURE"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	MessageKey string            `json:"-"` // i18n key for localization
	Params     map[string]string `json:"-"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`

	cause error
}

// Error implements the error interface. The wrapped cause is included so
// logs keep the original driver message.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Cause returns the underlying error, if any
func (e *AppError) Cause() error {
	return e.cause
}

// Localize returns a localized version of the error message
func (e *AppError) Localize(ctx context.Context) string {
	if e.MessageKey == "" {
		return e.Message
	}

	l := i18n.LocalizerFromContext(ctx)
	params := make(map[string]string, len(e.Params))
	for k, v := range e.Params {
		params[k] = v
	}
	if res, ok := params["resource"]; ok {
		params["resource"] = l.T("resources." + res)
	}
	return l.T(e.MessageKey, params)
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithCause attaches the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// InvalidArgument reports a rejected identifier or missing request
func InvalidArgument(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidArgument,
		Code:       CodeInvalidArgument,
		Message:    message,
		MessageKey: "errors.invalid_argument",
		Params:     map[string]string{"reason": message},
		StatusCode: http.StatusBadRequest,
	}
}

// BadRequest is used for malformed transport input
func BadRequest(message string) *AppError {
	return InvalidArgument(message)
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		MessageKey: "errors.not_found",
		Params:     map[string]string{"resource": resource},
		StatusCode: http.StatusNotFound,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       CodeValidation,
		Message:    "validation failed",
		MessageKey: "errors.validation_failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// StorageFailure wraps a database error. The client message stays generic.
func StorageFailure(message string, err error) *AppError {
	return &AppError{
		Err:        ErrStorage,
		Code:       CodeStorageFailure,
		Message:    message,
		MessageKey: "errors.storage",
		StatusCode: http.StatusInternalServerError,
		cause:      err,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       CodeInternal,
		Message:    message,
		MessageKey: "errors.internal",
		StatusCode: http.StatusInternalServerError,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
