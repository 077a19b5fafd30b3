package service

import (
	"context"

	"github.com/shopspring/decimal"

	"motorent-backend/internal/domain"
)

// DamageReport is one item of damage observed at vehicle return.
type DamageReport struct {
	Description string
	Severity    int
}

type ReservationService interface {
	// Create books a vehicle for an online customer. The rental starts in
	// PENDING and waits for admin approval.
	Create(ctx context.Context, username string, vehicleID int64, start, end domain.Date, insurance bool) (*domain.Rental, error)
	// CreateOffline books for a walk-in customer: no approval step, the
	// rental starts ACTIVE with a ticket already issued.
	CreateOffline(ctx context.Context, username string, vehicleID int64, start, end domain.Date, insurance bool) (*domain.Rental, error)
	Approve(ctx context.Context, rentalID int64) (*domain.Rental, error)
	Cancel(ctx context.Context, rentalID int64, reason string) (*domain.Rental, error)
	// Extend lengthens the caller's own active booking. It reports
	// (false, nil) when the caller holds no matching active rental;
	// callers treat that as "nothing to extend", not as an error.
	Extend(ctx context.Context, username string, vehicleID int64, newEnd domain.Date, insurance bool) (bool, error)
	Return(ctx context.Context, rentalID int64, damage []DamageReport) (*domain.Rental, error)
	Get(ctx context.Context, rentalID int64) (*domain.Rental, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
}

type TicketService interface {
	// Issue creates the rental's current ticket, superseding any prior one.
	Issue(ctx context.Context, rental *domain.Rental) (*domain.Ticket, error)
	// Validate consumes the ticket, gating physical handover.
	Validate(ctx context.Context, code, claimedName string) (*domain.Rental, error)
}

type MaintenanceService interface {
	Report(ctx context.Context, vehicleID int64, category domain.IssueCategory, description, reporter string, severity int) (*domain.MaintenanceIssue, error)
	Resolve(ctx context.Context, issueID string, cost decimal.Decimal, resolvedBy string) (*domain.MaintenanceIssue, error)
	HasCriticalOpenIssues(ctx context.Context, vehicleID int64) (bool, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceIssue, error)
}

type VehicleService interface {
	Add(ctx context.Context, v *domain.Vehicle) error
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	// Archive soft-retires a vehicle; rental history is never deleted.
	Archive(ctx context.Context, id int64) error
	// SetOverride pins the vehicle status until ClearOverride.
	SetOverride(ctx context.Context, id int64, override domain.StatusOverride) error
	ClearOverride(ctx context.Context, id int64) error
	Schedule(ctx context.Context, id int64) ([]domain.BookedInterval, error)
}

// Notifier is the fire-and-forget notification sink. Delivery failures are
// logged by callers and never fail the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, email, name, subject, body string) error
	// NotifyAttachment sends a message with a rendered document attached.
	NotifyAttachment(ctx context.Context, email, name, subject, body, filename string, attachment []byte) error
}

// TicketRenderer produces a printable document for a ticket. A rendering
// failure means "fall back to a plain notification", never a failed
// operation.
type TicketRenderer interface {
	RenderTicket(t *domain.Ticket) ([]byte, error)
}
