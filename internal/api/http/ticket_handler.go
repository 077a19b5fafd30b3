package http

import (
	"encoding/json"
	"net/http"

	"motorent-backend/internal/service"
)

// TicketHandler handles pickup ticket validation at the counter
type TicketHandler struct {
	tickets service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

type validateTicketRequest struct {
	Code         string `json:"code"`
	CustomerName string `json:"customer_name"`
}

// Validate consumes a pickup ticket and hands the vehicle over.
func (h *TicketHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	rental, err := h.tickets.Validate(r.Context(), req.Code, req.CustomerName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
