package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

type ticketService struct {
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	status      *StatusEngine
	locks       *LockSet
}

func NewTicketService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	status *StatusEngine,
	locks *LockSet,
) TicketService {
	return &ticketService{
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		status:      status,
		locks:       locks,
	}
}

// Issue assigns the rental a fresh ticket, superseding the current one. A
// rental that was already picked up keeps that state across reissue, so an
// extension never re-gates a vehicle that is physically out. The caller
// persists the rental.
func (s *ticketService) Issue(ctx context.Context, rental *domain.Rental) (*domain.Ticket, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, rental.VehicleID)
	if err != nil {
		return nil, err
	}
	seq, err := s.rentalRepo.NextTicketSeq(ctx)
	if err != nil {
		return nil, err
	}

	t := &domain.Ticket{
		Code:         fmt.Sprintf("TKT-%06d", seq),
		RentalID:     rental.ID,
		CustomerName: rental.Customer,
		VehicleLabel: vehicle.Label(),
		Start:        rental.Start,
		End:          rental.End,
		Used:         rental.PickedUp,
		IssuedOn:     time.Now().UTC().Format(time.RFC3339),
	}
	rental.Ticket = t
	logger.Info("Ticket issued", "code", t.Code, "rental_id", rental.ID)
	return t, nil
}

// Validate consumes a pickup ticket. Failure reasons are distinct so the
// caller can tell the customer exactly what went wrong: unknown code, a
// spent ticket, a name that does not match the booking snapshot, or a
// pickup attempted before the rental starts.
func (s *ticketService) Validate(ctx context.Context, code, claimedName string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByTicketCode(ctx, code)
	if err != nil {
		var nf domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, domain.TicketError{Code: code, Reason: domain.TicketUnknown}
		}
		return nil, err
	}

	unlock := s.locks.Lock(rental.VehicleID)
	defer unlock()

	// Re-read under the lock; the ticket may have been consumed or
	// superseded meanwhile.
	rental, err = s.rentalRepo.GetByTicketCode(ctx, code)
	if err != nil {
		return nil, domain.TicketError{Code: code, Reason: domain.TicketUnknown}
	}
	ticket := rental.Ticket

	if ticket.Used {
		return nil, domain.TicketError{Code: code, Reason: domain.TicketAlreadyUsed}
	}
	if !strings.EqualFold(ticket.CustomerName, claimedName) {
		return nil, domain.TicketError{Code: code, Reason: domain.TicketNameMismatch}
	}
	if domain.Today().Before(rental.Start) {
		return nil, domain.TicketError{Code: code, Reason: domain.TicketTooEarly}
	}

	ticket.Used = true
	rental.PickedUp = true
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
		logger.Error("Vehicle status update failed after pickup", "vehicle_id", vehicle.ID, "error", err)
	}

	logger.Info("Ticket validated, vehicle handed over",
		"code", code, "rental_id", rental.ID, "vehicle_id", rental.VehicleID)
	return rental, nil
}
