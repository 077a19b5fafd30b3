package jsonstore

import (
	"context"
	"sort"
	"time"

	"motorent-backend/internal/domain"
)

type MaintenanceRepo struct {
	store *Store
}

func (r *MaintenanceRepo) Append(ctx context.Context, issue *domain.MaintenanceIssue) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if issue.ReportedOn == "" {
		issue.ReportedOn = time.Now().UTC().Format(time.RFC3339)
	}
	clone := *issue
	s.issues[issue.ID] = &clone
	s.flushMaintenanceLocked()
	return nil
}

func (r *MaintenanceRepo) Update(ctx context.Context, issue *domain.MaintenanceIssue) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[issue.ID]; !ok {
		return domain.NotFoundError{Kind: "maintenance issue", ID: issue.ID}
	}
	clone := *issue
	s.issues[issue.ID] = &clone
	s.flushMaintenanceLocked()
	return nil
}

func (r *MaintenanceRepo) GetByID(ctx context.Context, id string) (*domain.MaintenanceIssue, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, domain.NotFoundError{Kind: "maintenance issue", ID: id}
	}
	clone := *issue
	return &clone, nil
}

func (r *MaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceIssue, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.MaintenanceIssue
	for _, issue := range s.issues {
		if issue.VehicleID == vehicleID {
			out = append(out, *issue)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedOn < out[j].ReportedOn })
	return out, nil
}
