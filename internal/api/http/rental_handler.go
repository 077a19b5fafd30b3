package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/service"
)

// RentalHandler handles booking lifecycle requests
type RentalHandler struct {
	reservations service.ReservationService
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(reservations service.ReservationService) *RentalHandler {
	return &RentalHandler{reservations: reservations}
}

type bookRequest struct {
	Username  string `json:"username"`
	VehicleID int64  `json:"vehicle_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Insurance bool   `json:"insurance"`
}

func (h *RentalHandler) Book(w http.ResponseWriter, r *http.Request) {
	h.book(w, r, h.reservations.Create)
}

// BookOffline serves walk-in bookings made at the counter.
func (h *RentalHandler) BookOffline(w http.ResponseWriter, r *http.Request) {
	h.book(w, r, h.reservations.CreateOffline)
}

func (h *RentalHandler) book(w http.ResponseWriter, r *http.Request, create func(ctx context.Context, username string, vehicleID int64, start, end domain.Date, insurance bool) (*domain.Rental, error)) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	start, err := domain.ParseDate(req.Start)
	if err != nil {
		writeError(w, domain.ValidationError{Field: "start", Msg: "expected YYYY-MM-DD"})
		return
	}
	end, err := domain.ParseDate(req.End)
	if err != nil {
		writeError(w, domain.ValidationError{Field: "end", Msg: "expected YYYY-MM-DD"})
		return
	}

	rental, err := create(r.Context(), req.Username, req.VehicleID, start, end, req.Insurance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.reservations.Approve(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	rental, err := h.reservations.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type extendRequest struct {
	Username  string `json:"username"`
	VehicleID int64  `json:"vehicle_id"`
	NewEnd    string `json:"new_end"`
	Insurance bool   `json:"insurance"`
}

type extendResponse struct {
	Extended bool `json:"extended"`
}

func (h *RentalHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	newEnd, err := domain.ParseDate(req.NewEnd)
	if err != nil {
		writeError(w, domain.ValidationError{Field: "new_end", Msg: "expected YYYY-MM-DD"})
		return
	}

	extended, err := h.reservations.Extend(r.Context(), req.Username, req.VehicleID, newEnd, req.Insurance)
	if err != nil {
		writeError(w, err)
		return
	}
	if !extended {
		// No active booking to lengthen; the caller decides what to do next.
		writeJSON(w, http.StatusOK, extendResponse{Extended: false})
		return
	}
	writeJSON(w, http.StatusOK, extendResponse{Extended: true})
}

type returnRequest struct {
	Damage []struct {
		Description string `json:"description"`
		Severity    int    `json:"severity"`
	} `json:"damage"`
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	damage := make([]service.DamageReport, 0, len(req.Damage))
	for _, d := range req.Damage {
		damage = append(damage, service.DamageReport{Description: d.Description, Severity: d.Severity})
	}

	rental, err := h.reservations.Return(r.Context(), id, damage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rental, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// List filters rentals by status when a ?status= query is present.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.RentalStatus(r.URL.Query().Get("status"))
	switch status {
	case domain.RentalStatusPending, domain.RentalStatusActive, domain.RentalStatusReturned, domain.RentalStatusCancelled:
	default:
		writeError(w, domain.ValidationError{Field: "status", Msg: "status must be PENDING, ACTIVE, RETURNED or CANCELLED"})
		return
	}
	rentals, err := h.reservations.ListByStatus(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rentals, err := h.reservations.ListByVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// pathID reads the {id} route variable as an int64.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
