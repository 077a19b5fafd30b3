package repository

import (
	"context"

	"motorent-backend/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	List(ctx context.Context, includeArchived bool) ([]domain.Vehicle, error)
}

type RentalRepository interface {
	// Create assigns the rental's id from the store's monotonic counter,
	// atomically with insertion.
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	Update(ctx context.Context, r *domain.Rental) error
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	GetByTicketCode(ctx context.Context, code string) (*domain.Rental, error)
	// NextTicketSeq advances and returns the ticket numbering sequence.
	NextTicketSeq(ctx context.Context) (int64, error)
}

type MaintenanceRepository interface {
	Append(ctx context.Context, issue *domain.MaintenanceIssue) error
	Update(ctx context.Context, issue *domain.MaintenanceIssue) error
	GetByID(ctx context.Context, id string) (*domain.MaintenanceIssue, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceIssue, error)
}

type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	ListAdmins(ctx context.Context) ([]domain.Account, error)
}
