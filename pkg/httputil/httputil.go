package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/emsvc/employee-service/pkg/errors"
	"github.com/emsvc/employee-service/pkg/i18n"
)

// Response is a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody represents an error in the response
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(response)
}

// Error sends an error response (uses default locale)
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		writeError(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	writeError(w, http.StatusInternalServerError, errors.CodeInternal, i18n.T("errors.internal"), nil)
}

// ErrorLocalized sends a localized error response using request context.
// Only the catalog message is sent, never the wrapped cause.
func ErrorLocalized(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		writeError(w, appErr.StatusCode, appErr.Code, appErr.Localize(r.Context()), appErr.Details)
		return
	}

	localizer := i18n.LocalizerFromContext(r.Context())
	writeError(w, http.StatusInternalServerError, errors.CodeInternal, localizer.T("errors.internal"), nil)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(Response{
		Success: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into v. An empty or malformed body is
// an invalid argument.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return invalidJSON()
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			return invalidJSON()
		}
		return invalidJSON().WithCause(err)
	}
	return nil
}

func invalidJSON() *errors.AppError {
	appErr := errors.BadRequest("invalid JSON body")
	appErr.MessageKey = "errors.invalid_json"
	appErr.Params = nil
	return appErr
}
