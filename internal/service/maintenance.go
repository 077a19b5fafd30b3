package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

func newIssueID() string {
	return uuid.NewString()
}

type maintenanceService struct {
	maintRepo   repository.MaintenanceRepository
	vehicleRepo repository.VehicleRepository
	accountRepo repository.AccountRepository
	notifier    Notifier
	status      *StatusEngine
	locks       *LockSet

	criticalSeverity   int
	adminAlertSeverity int
}

func NewMaintenanceService(
	maintRepo repository.MaintenanceRepository,
	vehicleRepo repository.VehicleRepository,
	accountRepo repository.AccountRepository,
	notifier Notifier,
	status *StatusEngine,
	locks *LockSet,
	criticalSeverity, adminAlertSeverity int,
) MaintenanceService {
	return &maintenanceService{
		maintRepo:          maintRepo,
		vehicleRepo:        vehicleRepo,
		accountRepo:        accountRepo,
		notifier:           notifier,
		status:             status,
		locks:              locks,
		criticalSeverity:   criticalSeverity,
		adminAlertSeverity: adminAlertSeverity,
	}
}

func (s *maintenanceService) Report(ctx context.Context, vehicleID int64, category domain.IssueCategory, description, reporter string, severity int) (*domain.MaintenanceIssue, error) {
	if severity < domain.SeverityMin || severity > domain.SeverityMax {
		return nil, domain.ValidationError{Field: "severity", Msg: "severity must be between 1 and 5"}
	}

	unlock := s.locks.Lock(vehicleID)
	defer unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	issue := &domain.MaintenanceIssue{
		ID:          newIssueID(),
		VehicleID:   vehicleID,
		Category:    category,
		Description: description,
		Severity:    severity,
		Reporter:    reporter,
		Status:      domain.IssueStatusOpen,
	}
	if err := s.maintRepo.Append(ctx, issue); err != nil {
		return nil, err
	}

	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	if severity >= s.adminAlertSeverity {
		broadcastAdmins(ctx, s.accountRepo, s.notifier,
			"Severe maintenance issue reported",
			fmt.Sprintf("Vehicle %s: %s (severity %d, reported by %s)", vehicle.Label(), description, severity, reporter))
	}

	logger.Info("Maintenance issue reported",
		"issue_id", issue.ID, "vehicle_id", vehicleID, "severity", severity, "vehicle_status", vehicle.Status)
	return issue, nil
}

func (s *maintenanceService) Resolve(ctx context.Context, issueID string, cost decimal.Decimal, resolvedBy string) (*domain.MaintenanceIssue, error) {
	issue, err := s.maintRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(issue.VehicleID)
	defer unlock()

	issue, err = s.maintRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == domain.IssueStatusResolved {
		return issue, nil
	}

	issue.Status = domain.IssueStatusResolved
	issue.Cost = cost
	issue.ResolvedBy = resolvedBy
	issue.ResolvedOn = time.Now().UTC().Format(time.RFC3339)
	if err := s.maintRepo.Update(ctx, issue); err != nil {
		return nil, err
	}

	// The vehicle may come back into rotation if this was the last
	// critical issue and no admin override is pinned.
	vehicle, err := s.vehicleRepo.GetByID(ctx, issue.VehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.status.Recompute(ctx, vehicle); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	logger.Info("Maintenance issue resolved",
		"issue_id", issueID, "cost", cost.StringFixed(2), "vehicle_status", vehicle.Status)
	return issue, nil
}

func (s *maintenanceService) HasCriticalOpenIssues(ctx context.Context, vehicleID int64) (bool, error) {
	issues, err := s.maintRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	for i := range issues {
		if issues[i].Open() && issues[i].Severity >= s.criticalSeverity {
			return true, nil
		}
	}
	return false, nil
}

func (s *maintenanceService) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceIssue, error) {
	return s.maintRepo.ListByVehicle(ctx, vehicleID)
}
