// Package response provides standardized HTTP response formatting and error handling utilities.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	apperrors "github.com/bookbookapp/bookbook-server/internal/errors"
	"github.com/bookbookapp/bookbook-server/internal/store"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any             `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    apperrors.Code  `json:"code,omitempty"`
	Details any             `json:"details,omitempty"`
	Message string          `json:"message,omitempty"`
	Success bool            `json:"success"`
}

// JSON writes a JSON response with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := Envelope{
		Success: status < 400,
		Data:    data,
	}

	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	if err := json.MarshalWrite(w, envelope); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Created writes a created response (201 Created).
func Created(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, data, logger)
}

// NoContent writes a no content response (204 No Content).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	writeError(w, status, Envelope{Success: false, Error: message}, logger)
}

func writeError(w http.ResponseWriter, status int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.MarshalWrite(w, envelope); err != nil {
		if logger != nil {
			logger.Error("Failed to encode error response", "error", err)
		}
	}
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusBadRequest, message, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, message, logger)
}

// Forbidden writes a 403 Forbidden response.
func Forbidden(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusForbidden, message, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, message, logger)
}

// Conflict writes a 409 Conflict response.
func Conflict(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusConflict, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, message, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors carry their own status codes, bare store sentinels map to
// 404/409, and anything else becomes a 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) {
		writeError(w, appErr.HTTPStatus(), Envelope{
			Success: false,
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		}, logger)
		return
	}

	switch {
	case apperrors.Is(err, store.ErrNotFound),
		apperrors.Is(err, store.ErrBookNotFound),
		apperrors.Is(err, store.ErrCategoryNotFound),
		apperrors.Is(err, store.ErrCommentNotFound),
		apperrors.Is(err, store.ErrUserNotFound):
		NotFound(w, err.Error(), logger)
		return
	case apperrors.Is(err, store.ErrAlreadyExists),
		apperrors.Is(err, store.ErrBookExists):
		Conflict(w, err.Error(), logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}
