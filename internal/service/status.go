package service

import (
	"context"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/repository"
)

// DeriveStatus computes a vehicle's operational status. Precedence, highest
// first: explicit admin override; critical open maintenance; an active
// rental whose ticket has been consumed (vehicle physically gone); any
// pending/active rental or future ledger interval (vehicle promised); free.
func DeriveStatus(v *domain.Vehicle, rentals []domain.Rental, criticalOpen bool, today domain.Date) domain.VehicleStatus {
	if v.Override != domain.OverrideNone {
		return domain.VehicleStatus(v.Override)
	}
	if criticalOpen {
		return domain.VehicleStatusUnderMaintenance
	}

	booked := false
	for i := range rentals {
		r := &rentals[i]
		switch r.Status {
		case domain.RentalStatusActive:
			if r.PickedUp {
				return domain.VehicleStatusRented
			}
			booked = true
		case domain.RentalStatusPending:
			booked = true
		case domain.RentalStatusReturned, domain.RentalStatusCancelled:
			// terminal, does not hold the vehicle
		}
	}
	if booked || v.HasFutureInterval(today) {
		return domain.VehicleStatusReserved
	}
	return domain.VehicleStatusAvailable
}

// StatusEngine re-syncs vehicle status after ledger, ticket, or maintenance
// mutations. Callers hold the per-vehicle lock and persist the vehicle
// afterwards.
type StatusEngine struct {
	rentalRepo       repository.RentalRepository
	maintRepo        repository.MaintenanceRepository
	criticalSeverity int
}

func NewStatusEngine(rentalRepo repository.RentalRepository, maintRepo repository.MaintenanceRepository, criticalSeverity int) *StatusEngine {
	return &StatusEngine{
		rentalRepo:       rentalRepo,
		maintRepo:        maintRepo,
		criticalSeverity: criticalSeverity,
	}
}

// Recompute sets v.Status from current rentals and maintenance state.
func (e *StatusEngine) Recompute(ctx context.Context, v *domain.Vehicle) error {
	rentals, err := e.rentalRepo.ListByVehicle(ctx, v.ID)
	if err != nil {
		return err
	}
	critical, err := e.criticalOpen(ctx, v.ID)
	if err != nil {
		return err
	}
	v.Status = DeriveStatus(v, rentals, critical, domain.Today())
	return nil
}

func (e *StatusEngine) criticalOpen(ctx context.Context, vehicleID int64) (bool, error) {
	issues, err := e.maintRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	for i := range issues {
		if issues[i].Open() && issues[i].Severity >= e.criticalSeverity {
			return true, nil
		}
	}
	return false, nil
}
