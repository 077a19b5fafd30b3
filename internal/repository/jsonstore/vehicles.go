package jsonstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"motorent-backend/internal/domain"
)

type VehicleRepo struct {
	store *Store
}

func cloneVehicle(v *domain.Vehicle) *domain.Vehicle {
	out := *v
	out.DiscountTiers = append([]domain.DiscountTier(nil), v.DiscountTiers...)
	out.Intervals = append([]domain.BookedInterval(nil), v.Intervals...)
	return &out
}

func (r *VehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = s.nextVehicleID
	s.nextVehicleID++
	if v.CreatedOn == "" {
		v.CreatedOn = time.Now().UTC().Format(time.RFC3339)
	}
	s.vehicles[v.ID] = cloneVehicle(v)
	s.flushVehiclesLocked()
	return nil
}

func (r *VehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, domain.NotFoundError{Kind: "vehicle", ID: fmt.Sprintf("%d", id)}
	}
	return cloneVehicle(v), nil
}

func (r *VehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicles[v.ID]; !ok {
		return domain.NotFoundError{Kind: "vehicle", ID: fmt.Sprintf("%d", v.ID)}
	}
	s.vehicles[v.ID] = cloneVehicle(v)
	s.flushVehiclesLocked()
	return nil
}

func (r *VehicleRepo) List(ctx context.Context, includeArchived bool) ([]domain.Vehicle, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Vehicle
	for _, v := range s.vehicles {
		if v.Archived && !includeArchived {
			continue
		}
		out = append(out, *cloneVehicle(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
