package jsonstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"motorent-backend/internal/domain"
)

type RentalRepo struct {
	store *Store
}

func cloneRental(r *domain.Rental) *domain.Rental {
	out := *r
	if r.Ticket != nil {
		t := *r.Ticket
		out.Ticket = &t
	}
	return &out
}

// Create allocates the rental id and inserts under one lock acquisition,
// so concurrent creates can never collide on an id.
func (r *RentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rental.ID = s.nextRentalID
	s.nextRentalID++
	now := time.Now().UTC().Format(time.RFC3339)
	rental.CreatedOn = now
	rental.UpdatedOn = now
	s.rentals[rental.ID] = cloneRental(rental)
	s.flushRentalsLocked()
	return nil
}

func (r *RentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rental, ok := s.rentals[id]
	if !ok {
		return nil, domain.NotFoundError{Kind: "rental", ID: fmt.Sprintf("%d", id)}
	}
	return cloneRental(rental), nil
}

func (r *RentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rentals[rental.ID]; !ok {
		return domain.NotFoundError{Kind: "rental", ID: fmt.Sprintf("%d", rental.ID)}
	}
	rental.UpdatedOn = time.Now().UTC().Format(time.RFC3339)
	s.rentals[rental.ID] = cloneRental(rental)
	s.flushRentalsLocked()
	return nil
}

func (r *RentalRepo) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Rental, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Rental
	for _, rental := range s.rentals {
		if rental.VehicleID == vehicleID {
			out = append(out, *cloneRental(rental))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Rental
	for _, rental := range s.rentals {
		if rental.Status == status {
			out = append(out, *cloneRental(rental))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RentalRepo) GetByTicketCode(ctx context.Context, code string) (*domain.Rental, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rental := range s.rentals {
		if rental.Ticket != nil && rental.Ticket.Code == code {
			return cloneRental(rental), nil
		}
	}
	return nil, domain.NotFoundError{Kind: "ticket", ID: code}
}

func (r *RentalRepo) NextTicketSeq(ctx context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.nextTicketSeq
	s.nextTicketSeq++
	s.flushRentalsLocked()
	return seq, nil
}
