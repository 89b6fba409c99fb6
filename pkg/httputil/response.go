package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// Messages used for 5xx responses. Upstream and internal detail is logged, never returned.
const (
	InternalErrorTitle   = "Internal server error"
	InternalErrorMessage = "an internal error occurred"
)

// ErrorResponse is the flat JSON error body returned by every endpoint.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Message   string            `json:"message,omitempty"`
	Code      string            `json:"code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// RequestLogger returns the request-scoped logger if the RequestLogger
// middleware stored one, otherwise fallback.
func RequestLogger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	return l
}

// WriteError writes an error response derived from err. AppErrors carry their
// own status and client message; everything else is a logged 500 with a
// generic body.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		WriteJSON(w, appErr.Status, ErrorResponse{
			Error:     appErr.Message,
			Code:      appErr.Code,
			RequestID: requestID,
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: "resource not found", Code: "NOT_FOUND", RequestID: requestID})
		return
	case errors.Is(err, apperrors.ErrInvalidInput):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_INPUT", RequestID: requestID})
		return
	case errors.Is(err, apperrors.ErrRateLimited):
		WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests", Code: "RATE_LIMITED", RequestID: requestID})
		return
	}

	RequestLogger(r, fallback).ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	code := "INTERNAL_ERROR"
	if status == http.StatusServiceUnavailable {
		code = "SERVICE_UNAVAILABLE"
	} else {
		status = http.StatusInternalServerError
	}
	WriteJSON(w, status, ErrorResponse{
		Error:     InternalErrorTitle,
		Message:   InternalErrorMessage,
		Code:      code,
		RequestID: requestID,
	})
}

// WriteValidationError writes a 400 for a request body that failed decoding or
// struct validation, with per-field messages when available.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "request validation failed",
			Code:      "VALIDATION_ERROR",
			Fields:    valErr.Fields(),
			RequestID: requestID,
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:     err.Error(),
		Code:      "INVALID_INPUT",
		RequestID: requestID,
	})
}
