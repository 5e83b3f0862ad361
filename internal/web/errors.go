package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode), or statusFor(err) picks the code
//  3. Error is mapped via core.MapError to get a user-friendly message
//  4. Technical error is logged with the request id for correlation
//  5. User message is rendered as JSON (or as {"erro": ...} on legacy routes)

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/AttrExtract/internal/core"
	"github.com/JonMunkholm/AttrExtract/internal/logging"
	"github.com/JonMunkholm/AttrExtract/internal/service"
	"github.com/JonMunkholm/AttrExtract/internal/session"
	"github.com/JonMunkholm/AttrExtract/internal/sheet"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	HTTPStatusCode int `json:"-"`

	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// LegacyErrorResponse is the error body of the legacy routes.
type LegacyErrorResponse struct {
	HTTPStatusCode int `json:"-"`

	Erro   string `json:"erro"`
	Codigo string `json:"codigo,omitempty"`
}

func (e *LegacyErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// respondError logs the technical error server-side and renders the user
// message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if isLegacy(r) {
		_ = render.Render(w, r, &LegacyErrorResponse{
			HTTPStatusCode: statusCode,
			Erro:           userMsg.Message,
			Codigo:         userMsg.Code,
		})
		return
	}

	_ = render.Render(w, r, &ErrorResponse{
		HTTPStatusCode: statusCode,
		Error:          userMsg.Message,
		Message:        userMsg.Message,
		Action:         userMsg.Action,
		Code:           userMsg.Code,
	})
}

// statusFor chooses the HTTP status of a service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrJobInProgress):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, errTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrNoFile),
		errors.Is(err, sheet.ErrUnsupportedFormat),
		errors.Is(err, session.ErrInvalidFilename):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
