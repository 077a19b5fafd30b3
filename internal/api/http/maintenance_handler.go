package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/service"
)

// MaintenanceHandler handles issue reporting and resolution
type MaintenanceHandler struct {
	maintenance service.MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenance service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

type reportIssueRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Reporter    string `json:"reporter"`
	Severity    int    `json:"severity"`
}

func (h *MaintenanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reportIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	issue, err := h.maintenance.Report(r.Context(), vehicleID, domain.IssueCategory(req.Category), req.Description, req.Reporter, req.Severity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

type resolveIssueRequest struct {
	Cost       string `json:"cost"`
	ResolvedBy string `json:"resolved_by"`
}

func (h *MaintenanceHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	issueID := mux.Vars(r)["issueId"]
	var req resolveIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cost := decimal.Zero
	if req.Cost != "" {
		parsed, err := decimal.NewFromString(req.Cost)
		if err != nil || parsed.IsNegative() {
			writeError(w, domain.ValidationError{Field: "cost", Msg: "cost must be a non-negative amount"})
			return
		}
		cost = parsed
	}

	issue, err := h.maintenance.Resolve(r.Context(), issueID, cost, req.ResolvedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (h *MaintenanceHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathID(w, r)
	if !ok {
		return
	}
	issues, err := h.maintenance.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}
