package domain

import "github.com/shopspring/decimal"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusReturned  RentalStatus = "RETURNED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// Terminal reports whether the status admits no further transitions.
func (s RentalStatus) Terminal() bool {
	return s == RentalStatusReturned || s == RentalStatusCancelled
}

type Rental struct {
	ID        int64 `json:"id"`
	VehicleID int64 `json:"vehicle_id"`
	// Customer is the full-name snapshot resolved at booking time; Username
	// is the owning account. Extension lookup matches Username first and
	// falls back to Customer.
	Customer  string `json:"customer"`
	Username  string `json:"username"`
	Start     Date   `json:"start"`
	End       Date   `json:"end"`
	Insurance bool   `json:"insurance"`

	QuotedFee decimal.Decimal `json:"quoted_fee"`
	ActualFee decimal.Decimal `json:"actual_fee"`
	LateFee   decimal.Decimal `json:"late_fee"`

	Status       RentalStatus `json:"status"`
	RejectReason string       `json:"reject_reason,omitempty"`

	// Ticket is the current pickup credential; superseded on re-approval
	// and extension. PickedUp survives reissue.
	Ticket   *Ticket `json:"ticket,omitempty"`
	PickedUp bool    `json:"picked_up"`

	ReminderDueSent     bool `json:"reminder_due_sent"`
	ReminderOverdueSent bool `json:"reminder_overdue_sent"`

	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}
