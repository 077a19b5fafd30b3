// Package http exposes the rental engine over a JSON HTTP API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var (
		valErr      domain.ValidationError
		conflictErr domain.ConflictError
		transErr    domain.InvalidTransitionError
		pickupErr   domain.NotPickedUpError
		ticketErr   domain.TicketError
		notFoundErr domain.NotFoundError
	)

	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: valErr.Error(), Code: "VALIDATION"})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflictErr.Error(), Code: "CONFLICT"})
	case errors.As(err, &transErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: transErr.Error(), Code: "INVALID_TRANSITION"})
	case errors.As(err, &pickupErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: pickupErr.Error(), Code: "NOT_PICKED_UP"})
	case errors.As(err, &ticketErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ticketErr.Error(), Code: string(ticketErr.Reason)})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error(), Code: "NOT_FOUND"})
	default:
		logger.Error("Unhandled request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
