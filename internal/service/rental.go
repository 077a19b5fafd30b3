package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
	"motorent-backend/internal/utils"
)

type reservationService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	maintRepo   repository.MaintenanceRepository
	accountRepo repository.AccountRepository
	tickets     TicketService
	notifier    Notifier
	renderer    TicketRenderer
	status      *StatusEngine
	locks       *LockSet

	bufferDays         int
	latePenalty        decimal.Decimal
	adminAlertSeverity int
}

func NewReservationService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	maintRepo repository.MaintenanceRepository,
	accountRepo repository.AccountRepository,
	tickets TicketService,
	notifier Notifier,
	renderer TicketRenderer,
	status *StatusEngine,
	locks *LockSet,
	bufferDays int,
	latePenalty decimal.Decimal,
	adminAlertSeverity int,
) ReservationService {
	return &reservationService{
		rentalRepo:         rentalRepo,
		vehicleRepo:        vehicleRepo,
		maintRepo:          maintRepo,
		accountRepo:        accountRepo,
		tickets:            tickets,
		notifier:           notifier,
		renderer:           renderer,
		status:             status,
		locks:              locks,
		bufferDays:         bufferDays,
		latePenalty:        latePenalty,
		adminAlertSeverity: adminAlertSeverity,
	}
}

func validateRange(start, end domain.Date) error {
	if start.Before(domain.Today()) {
		return domain.ValidationError{Field: "start", Msg: "start date must not be in the past"}
	}
	if end.Before(start) {
		return domain.ValidationError{Field: "end", Msg: "end date must not precede start date"}
	}
	return nil
}

// checkConflict scans the vehicle's live bookings against the candidate
// range padded by bufferDays. excludeID skips the caller's own rental
// during extension.
func (s *reservationService) checkConflict(ctx context.Context, vehicleID int64, start, end domain.Date, bufferDays int, excludeID int64) error {
	rentals, err := s.rentalRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	for i := range rentals {
		r := &rentals[i]
		if r.Status.Terminal() || r.ID == excludeID {
			continue
		}
		if domain.IntervalsClash(start, end, r.Start, r.End, bufferDays) {
			return domain.ConflictError{
				VehicleID:   vehicleID,
				RentalID:    r.ID,
				HeldBy:      r.Customer,
				WindowStart: r.Start.AddDays(-bufferDays),
				WindowEnd:   r.End.AddDays(bufferDays),
			}
		}
	}
	return nil
}

// isExtension reports whether username already holds a live booking on the
// vehicle adjacent to or overlapping the candidate range. Such bookings
// keep continuous custody and bypass the service-gap buffer.
func isExtension(rentals []domain.Rental, start, end domain.Date, username string) bool {
	for i := range rentals {
		r := &rentals[i]
		if r.Status.Terminal() || r.Username != username {
			continue
		}
		if domain.IntervalsClash(start, end, r.Start, r.End, 0) || domain.Adjacent(start, end, r.Start, r.End) {
			return true
		}
	}
	return false
}

func (s *reservationService) bookableVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Archived {
		return nil, domain.ValidationError{Field: "vehicle", Msg: "vehicle has been retired from the fleet"}
	}
	switch vehicle.Status {
	case domain.VehicleStatusUnderMaintenance, domain.VehicleStatusOutOfService:
		return nil, domain.ValidationError{Field: "vehicle", Msg: "vehicle is out of rotation"}
	}
	return vehicle, nil
}

func (s *reservationService) Create(ctx context.Context, username string, vehicleID int64, start, end domain.Date, insurance bool) (*domain.Rental, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	acct, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	vehicle, err := s.bookableVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, vehicleID, start, end, s.bufferDays, 0); err != nil {
		return nil, err
	}

	fee, err := utils.Quote(vehicle, start, end, insurance)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		VehicleID: vehicleID,
		Customer:  acct.FullName,
		Username:  username,
		Start:     start,
		End:       end,
		Insurance: insurance,
		QuotedFee: fee,
		Status:    domain.RentalStatusPending,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	vehicle.Reserve(start, end)
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	s.notify(ctx, acct, "Booking received",
		fmt.Sprintf("Your booking of %s from %s to %s is awaiting approval. Quoted fee: %s.",
			vehicle.Label(), start, end, fee.StringFixed(2)))

	logger.Info("Rental created", "rental_id", rental.ID, "vehicle_id", vehicleID, "customer", acct.FullName)
	return rental, nil
}

// CreateOffline books for a walk-in customer at the counter: no approval
// round trip, the rental starts ACTIVE with its ticket already issued. The
// conflict check is extension-aware for the target customer, so topping up
// their own adjacent booking is allowed.
func (s *reservationService) CreateOffline(ctx context.Context, username string, vehicleID int64, start, end domain.Date, insurance bool) (*domain.Rental, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	acct, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	vehicle, err := s.bookableVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	rentals, err := s.rentalRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	buffer := s.bufferDays
	if isExtension(rentals, start, end, username) {
		buffer = 0
	}
	if err := s.checkConflict(ctx, vehicleID, start, end, buffer, 0); err != nil {
		return nil, err
	}

	fee, err := utils.Quote(vehicle, start, end, insurance)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		VehicleID: vehicleID,
		Customer:  acct.FullName,
		Username:  username,
		Start:     start,
		End:       end,
		Insurance: insurance,
		QuotedFee: fee,
		Status:    domain.RentalStatusActive,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Issue(ctx, rental)
	if err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	vehicle.Reserve(start, end)
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	s.deliverTicket(ctx, acct, vehicle, rental, ticket)

	logger.Info("Walk-in rental created", "rental_id", rental.ID, "vehicle_id", vehicleID, "ticket", ticket.Code)
	return rental, nil
}

func (s *reservationService) Approve(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(rental.VehicleID)
	defer unlock()

	rental, err = s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPending {
		return nil, domain.InvalidTransitionError{RentalID: rentalID, From: rental.Status, Op: "approve"}
	}

	ticket, err := s.tickets.Issue(ctx, rental)
	if err != nil {
		return nil, err
	}
	rental.Status = domain.RentalStatusActive
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, rental.VehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	if acct, err := s.accountRepo.GetByUsername(ctx, rental.Username); err != nil {
		logger.Warn("Account lookup failed, skipping approval notification", "username", rental.Username, "error", err)
	} else {
		s.deliverTicket(ctx, acct, vehicle, rental, ticket)
	}

	logger.Info("Rental approved", "rental_id", rentalID, "ticket", ticket.Code)
	return rental, nil
}

func (s *reservationService) Cancel(ctx context.Context, rentalID int64, reason string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(rental.VehicleID)
	defer unlock()

	rental, err = s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPending {
		return nil, domain.InvalidTransitionError{RentalID: rentalID, From: rental.Status, Op: "cancel"}
	}

	rental.Status = domain.RentalStatusCancelled
	rental.RejectReason = reason
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, rental.VehicleID)
	if err != nil {
		return nil, err
	}
	vehicle.Release(rental.Start, rental.End)
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	// No fee was charged, so the notification carries only the reason.
	if acct, err := s.accountRepo.GetByUsername(ctx, rental.Username); err == nil {
		s.notify(ctx, acct, "Booking cancelled",
			fmt.Sprintf("Your booking of %s from %s to %s was cancelled. %s", vehicle.Label(), rental.Start, rental.End, reason))
	}

	logger.Info("Rental cancelled", "rental_id", rentalID, "reason", reason)
	return rental, nil
}

// Extend lengthens the caller's own active booking on the vehicle. The
// booking is located by username first, then by the caller's full name —
// the layered fallback tolerates counter bookings recorded under a display
// name. Reports (false, nil) when nothing matches.
func (s *reservationService) Extend(ctx context.Context, username string, vehicleID int64, newEnd domain.Date, insurance bool) (bool, error) {
	acct, acctErr := s.accountRepo.GetByUsername(ctx, username)
	if acctErr != nil {
		logger.Warn("Account lookup failed during extension", "username", username, "error", acctErr)
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	rentals, err := s.rentalRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	rental := findOwnActive(rentals, username, acct)
	if rental == nil {
		return false, nil
	}

	if newEnd.Before(rental.Start) {
		return false, domain.ValidationError{Field: "end", Msg: "new end date must not precede the rental start"}
	}

	// Same customer keeps continuous custody, so the gap buffer does not
	// apply; other customers' bookings still do.
	if err := s.checkConflict(ctx, vehicleID, rental.Start, newEnd, 0, rental.ID); err != nil {
		return false, err
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}

	vehicle.Release(rental.Start, rental.End)
	vehicle.Reserve(rental.Start, newEnd)

	rental.End = newEnd
	rental.Insurance = insurance
	// The whole stay is re-quoted at the new duration so a longer discount
	// tier can newly apply.
	fee, err := utils.Quote(vehicle, rental.Start, newEnd, insurance)
	if err != nil {
		return false, err
	}
	rental.QuotedFee = fee
	// The due date moved; both reminders are armed again.
	rental.ReminderDueSent = false
	rental.ReminderOverdueSent = false

	ticket, err := s.tickets.Issue(ctx, rental)
	if err != nil {
		return false, err
	}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return false, err
	}
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return false, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return false, err
	}

	if acct != nil {
		s.deliverTicket(ctx, acct, vehicle, rental, ticket)
	}

	logger.Info("Rental extended", "rental_id", rental.ID, "new_end", newEnd.String(), "fee", fee.StringFixed(2))
	return true, nil
}

func findOwnActive(rentals []domain.Rental, username string, acct *domain.Account) *domain.Rental {
	for i := range rentals {
		r := &rentals[i]
		if r.Status == domain.RentalStatusActive && r.Username == username {
			return r
		}
	}
	if acct == nil {
		return nil
	}
	for i := range rentals {
		r := &rentals[i]
		if r.Status == domain.RentalStatusActive && strings.EqualFold(r.Customer, acct.FullName) {
			return r
		}
	}
	return nil
}

func (s *reservationService) Return(ctx context.Context, rentalID int64, damage []DamageReport) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(rental.VehicleID)
	defer unlock()

	rental, err = s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, domain.InvalidTransitionError{RentalID: rentalID, From: rental.Status, Op: "return"}
	}
	if rental.Ticket == nil || !rental.Ticket.Used {
		return nil, domain.NotPickedUpError{RentalID: rentalID}
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, rental.VehicleID)
	if err != nil {
		return nil, err
	}

	today := domain.Today()
	actual, late, err := utils.ReturnQuote(vehicle, rental, today, s.latePenalty)
	if err != nil {
		return nil, err
	}

	for _, d := range damage {
		if err := s.recordDamage(ctx, rental, d); err != nil {
			return nil, err
		}
	}

	rental.Status = domain.RentalStatusReturned
	rental.ActualFee = actual
	rental.LateFee = late
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	vehicle.Release(rental.Start, rental.End)
	// Recompute picks up any critical damage just recorded and forces the
	// vehicle into maintenance instead of releasing it.
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	if acct, err := s.accountRepo.GetByUsername(ctx, rental.Username); err == nil {
		body := fmt.Sprintf("Thank you for returning %s. Final fee: %s.", vehicle.Label(), actual.StringFixed(2))
		if late.IsPositive() {
			body += fmt.Sprintf(" A late surcharge of %s applies on top.", late.StringFixed(2))
		}
		s.notify(ctx, acct, "Vehicle returned", body)
	}

	logger.Info("Rental returned",
		"rental_id", rentalID,
		"actual_fee", actual.StringFixed(2),
		"late_fee", late.StringFixed(2),
		"vehicle_status", vehicle.Status)
	return rental, nil
}

func (s *reservationService) recordDamage(ctx context.Context, rental *domain.Rental, d DamageReport) error {
	if d.Severity < domain.SeverityMin || d.Severity > domain.SeverityMax {
		return domain.ValidationError{Field: "severity", Msg: "severity must be between 1 and 5"}
	}
	issue := &domain.MaintenanceIssue{
		ID:          newIssueID(),
		VehicleID:   rental.VehicleID,
		Category:    domain.IssueCategoryDamage,
		Description: d.Description,
		Severity:    d.Severity,
		Reporter:    rental.Customer,
		Status:      domain.IssueStatusOpen,
	}
	if err := s.maintRepo.Append(ctx, issue); err != nil {
		return err
	}
	if d.Severity >= s.adminAlertSeverity {
		broadcastAdmins(ctx, s.accountRepo, s.notifier,
			"Severe damage reported at return",
			fmt.Sprintf("Vehicle %d, rental %d: %s (severity %d)", rental.VehicleID, rental.ID, d.Description, d.Severity))
	}
	return nil
}

func (s *reservationService) Get(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *reservationService) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Rental, error) {
	return s.rentalRepo.ListByVehicle(ctx, vehicleID)
}

func (s *reservationService) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	return s.rentalRepo.ListByStatus(ctx, status)
}

// deliverTicket sends the pickup credential. PDF rendering is attempted
// first; when it fails the customer still gets a plain-text ticket, and the
// operation never fails over delivery.
func (s *reservationService) deliverTicket(ctx context.Context, acct *domain.Account, vehicle *domain.Vehicle, rental *domain.Rental, ticket *domain.Ticket) {
	subject := fmt.Sprintf("Pickup ticket %s", ticket.Code)
	body := fmt.Sprintf("Present ticket %s to collect %s. Rental period %s to %s.",
		ticket.Code, vehicle.Label(), rental.Start, rental.End)

	doc, err := s.renderer.RenderTicket(ticket)
	if err != nil {
		logger.Warn("Ticket rendering failed, falling back to plain notification",
			"ticket", ticket.Code, "error", err)
		s.notify(ctx, acct, subject, body)
		return
	}

	logger.ExternalServiceCall("notifier", "notify_attachment", "to", acct.Email, "ticket", ticket.Code)
	err = s.notifier.NotifyAttachment(ctx, acct.Email, acct.FullName, subject, body, ticket.Code+".pdf", doc)
	logger.ExternalServiceResult("notifier", "notify_attachment", err)
}

func (s *reservationService) notify(ctx context.Context, acct *domain.Account, subject, body string) {
	logger.ExternalServiceCall("notifier", "notify", "to", acct.Email, "subject", subject)
	err := s.notifier.Notify(ctx, acct.Email, acct.FullName, subject, body)
	logger.ExternalServiceResult("notifier", "notify", err)
}
