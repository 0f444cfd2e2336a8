package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lfournier/datebook/internal/apperror"
)

// ErrorResponse is the error shape every endpoint returns. The error field
// carries an i18n key the client resolves to a localized message; for
// unclassified failures it carries the raw error text.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of mutations that have nothing better to
// return than an acknowledgment key.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response. Headers and status must be set before
// the first body write, hence the ordering here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; nothing left to do but log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP status and body.
//
// Conflict maps to 400, not 409: the client treats duplicate-name errors
// as ordinary validation feedback, and the historic API behaved this way.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Key})
		return
	}

	// Unclassified persistence failure: 500 with the raw message.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
