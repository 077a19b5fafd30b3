package service

import (
	"context"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	rentalRepo  repository.RentalRepository
	status      *StatusEngine
	locks       *LockSet
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	rentalRepo repository.RentalRepository,
	status *StatusEngine,
	locks *LockSet,
) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		rentalRepo:  rentalRepo,
		status:      status,
		locks:       locks,
	}
}

func (s *vehicleService) Add(ctx context.Context, v *domain.Vehicle) error {
	if v.DailyRate.IsNegative() || v.DailyRate.IsZero() {
		return domain.ValidationError{Field: "daily_rate", Msg: "daily rate must be positive"}
	}
	if v.InsuranceRate.IsNegative() {
		return domain.ValidationError{Field: "insurance_rate", Msg: "insurance rate must not be negative"}
	}
	v.Status = domain.VehicleStatusAvailable
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return err
	}
	logger.Info("Vehicle added", "vehicle_id", v.ID, "plate", v.Plate)
	return nil
}

func (s *vehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *vehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx, false)
}

// Archive soft-retires the vehicle. Rental history stays intact; the
// catalog simply stops offering the vehicle.
func (s *vehicleService) Archive(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	v.Archived = true
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return err
	}
	logger.Info("Vehicle archived", "vehicle_id", id)
	return nil
}

func (s *vehicleService) SetOverride(ctx context.Context, id int64, override domain.StatusOverride) error {
	switch override {
	case domain.OverrideUnderMaintenance, domain.OverrideOutOfService:
	default:
		return domain.ValidationError{Field: "override", Msg: "override must be UNDER_MAINTENANCE or OUT_OF_SERVICE"}
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	v.Override = override
	if err := s.status.Recompute(ctx, v); err != nil {
		return err
	}
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return err
	}
	logger.Info("Vehicle status pinned", "vehicle_id", id, "override", override)
	return nil
}

func (s *vehicleService) ClearOverride(ctx context.Context, id int64) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	v.Override = domain.OverrideNone
	if err := s.status.Recompute(ctx, v); err != nil {
		return err
	}
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return err
	}
	logger.Info("Vehicle status override cleared", "vehicle_id", id, "status", v.Status)
	return nil
}

func (s *vehicleService) Schedule(ctx context.Context, id int64) ([]domain.BookedInterval, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.Intervals, nil
}
