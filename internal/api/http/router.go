package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires all handlers into the API route table.
func NewRouter(rentals *RentalHandler, tickets *TicketHandler, maintenance *MaintenanceHandler, vehicles *VehicleHandler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Booking lifecycle
	api.HandleFunc("/rentals", rentals.Book).Methods(http.MethodPost)
	api.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	api.HandleFunc("/rentals/offline", rentals.BookOffline).Methods(http.MethodPost)
	api.HandleFunc("/rentals/extend", rentals.Extend).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/approve", rentals.Approve).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/cancel", rentals.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/return", rentals.Return).Methods(http.MethodPost)

	// Tickets
	api.HandleFunc("/tickets/validate", tickets.Validate).Methods(http.MethodPost)

	// Fleet
	api.HandleFunc("/vehicles", vehicles.Add).Methods(http.MethodPost)
	api.HandleFunc("/vehicles", vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicles.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/archive", vehicles.Archive).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id:[0-9]+}/override", vehicles.SetOverride).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id:[0-9]+}/override", vehicles.ClearOverride).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{id:[0-9]+}/schedule", vehicles.Schedule).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id:[0-9]+}/rentals", rentals.ListByVehicle).Methods(http.MethodGet)

	// Maintenance
	api.HandleFunc("/vehicles/{id:[0-9]+}/maintenance", maintenance.Report).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id:[0-9]+}/maintenance", maintenance.ListByVehicle).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{issueId}/resolve", maintenance.Resolve).Methods(http.MethodPost)

	return r
}
