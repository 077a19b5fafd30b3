package domain

// Ticket is the single-use credential gating physical handover. Only one
// ticket is current per rental; reissuing assigns a fresh code. The snapshot
// fields are frozen at issue time and validation matches against them, not
// against live account data.
type Ticket struct {
	Code         string `json:"code"`
	RentalID     int64  `json:"rental_id"`
	CustomerName string `json:"customer_name"`
	VehicleLabel string `json:"vehicle_label"`
	Start        Date   `json:"start"`
	End          Date   `json:"end"`
	Used         bool   `json:"used"`
	IssuedOn     string `json:"issued_on"`
}
