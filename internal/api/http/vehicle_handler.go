package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/service"
)

// VehicleHandler handles fleet administration requests
type VehicleHandler struct {
	vehicles service.VehicleService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

type addVehicleRequest struct {
	Plate         string `json:"plate"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Type          string `json:"type"`
	Fuel          string `json:"fuel"`
	DailyRate     string `json:"daily_rate"`
	InsuranceRate string `json:"insurance_rate"`
	DiscountTiers []struct {
		MinDays  int    `json:"min_days"`
		Fraction string `json:"fraction"`
	} `json:"discount_tiers"`
}

func (h *VehicleHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	dailyRate, err := decimal.NewFromString(req.DailyRate)
	if err != nil {
		writeError(w, domain.ValidationError{Field: "daily_rate", Msg: "daily rate must be a decimal amount"})
		return
	}
	insuranceRate := decimal.Zero
	if req.InsuranceRate != "" {
		insuranceRate, err = decimal.NewFromString(req.InsuranceRate)
		if err != nil {
			writeError(w, domain.ValidationError{Field: "insurance_rate", Msg: "insurance rate must be a decimal amount"})
			return
		}
	}

	tiers := make([]domain.DiscountTier, 0, len(req.DiscountTiers))
	for _, t := range req.DiscountTiers {
		fraction, err := decimal.NewFromString(t.Fraction)
		if err != nil {
			writeError(w, domain.ValidationError{Field: "discount_tiers", Msg: "tier fraction must be a decimal amount"})
			return
		}
		tiers = append(tiers, domain.DiscountTier{MinDays: t.MinDays, Fraction: fraction})
	}

	v := &domain.Vehicle{
		Plate:         req.Plate,
		Brand:         req.Brand,
		Model:         req.Model,
		Type:          domain.VehicleType(req.Type),
		Fuel:          domain.FuelType(req.Fuel),
		DailyRate:     dailyRate,
		InsuranceRate: insuranceRate,
		DiscountTiers: tiers,
	}
	if err := h.vehicles.Add(r.Context(), v); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.vehicles.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.vehicles.Archive(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type overrideRequest struct {
	Override string `json:"override"`
}

// SetOverride pins the vehicle's status regardless of bookings or issues.
func (h *VehicleHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.vehicles.SetOverride(r.Context(), id, domain.StatusOverride(req.Override)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *VehicleHandler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.vehicles.ClearOverride(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *VehicleHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	intervals, err := h.vehicles.Schedule(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intervals)
}
