package jsonstore

import (
	"context"
	"sort"

	"motorent-backend/internal/domain"
)

// AccountRepo serves identity lookups from the accounts snapshot. Account
// management itself (registration, authentication) lives outside this
// system; the snapshot is seed data.
type AccountRepo struct {
	store *Store
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[username]
	if !ok {
		return nil, domain.NotFoundError{Kind: "account", ID: username}
	}
	clone := *a
	return &clone, nil
}

func (r *AccountRepo) ListAdmins(ctx context.Context) ([]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Account
	for _, a := range s.accounts {
		switch a.Role {
		case domain.RoleAdmin:
			out = append(out, *a)
		case domain.RoleCustomer:
			// not a broadcast target
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
