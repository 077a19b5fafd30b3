// Package jsonstore implements the repositories over JSON snapshot files.
// In-memory state is authoritative: every mutation commits to memory first
// and then flushes the owning snapshot to disk best-effort. A failed flush
// is logged and counted but never rolls back or fails the mutation.
package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
)

const (
	vehiclesFile    = "vehicles.json"
	rentalsFile     = "rentals.json"
	maintenanceFile = "maintenance.json"
	accountsFile    = "accounts.json"
)

type vehiclesSnapshot struct {
	NextVehicleID int64            `json:"next_vehicle_id"`
	Vehicles      []domain.Vehicle `json:"vehicles"`
}

type rentalsSnapshot struct {
	NextRentalID  int64           `json:"next_rental_id"`
	NextTicketSeq int64           `json:"next_ticket_seq"`
	Rentals       []domain.Rental `json:"rentals"`
}

type maintenanceSnapshot struct {
	Issues []domain.MaintenanceIssue `json:"issues"`
}

type accountsSnapshot struct {
	Accounts []domain.Account `json:"accounts"`
}

// Store owns the in-memory entity maps and the snapshot directory, and
// exposes one repository per aggregate.
type Store struct {
	dir string

	mu            sync.RWMutex
	vehicles      map[int64]*domain.Vehicle
	rentals       map[int64]*domain.Rental
	issues        map[string]*domain.MaintenanceIssue
	accounts      map[string]*domain.Account
	nextVehicleID int64
	nextRentalID  int64
	nextTicketSeq int64

	saveFailures atomic.Int64

	Vehicles    *VehicleRepo
	Rentals     *RentalRepo
	Maintenance *MaintenanceRepo
	Accounts    *AccountRepo
}

// Open loads all snapshots from dir. Missing files mean a fresh store.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &Store{
		dir:           dir,
		vehicles:      make(map[int64]*domain.Vehicle),
		rentals:       make(map[int64]*domain.Rental),
		issues:        make(map[string]*domain.MaintenanceIssue),
		accounts:      make(map[string]*domain.Account),
		nextVehicleID: 1,
		nextRentalID:  1,
		nextTicketSeq: 1,
	}
	s.Vehicles = &VehicleRepo{store: s}
	s.Rentals = &RentalRepo{store: s}
	s.Maintenance = &MaintenanceRepo{store: s}
	s.Accounts = &AccountRepo{store: s}

	if err := s.load(); err != nil {
		return nil, err
	}

	logger.Info("Snapshot store loaded",
		"dir", dir,
		"vehicles", len(s.vehicles),
		"rentals", len(s.rentals),
		"issues", len(s.issues),
		"accounts", len(s.accounts))
	return s, nil
}

// SaveFailureCount reports how many snapshot flushes have failed since the
// store was opened. Committed transitions that missed the disk are visible
// here rather than silently lost.
func (s *Store) SaveFailureCount() int64 {
	return s.saveFailures.Load()
}

func (s *Store) load() error {
	var vs vehiclesSnapshot
	if ok, err := s.readSnapshot(vehiclesFile, &vs); err != nil {
		return err
	} else if ok {
		s.nextVehicleID = vs.NextVehicleID
		for i := range vs.Vehicles {
			v := vs.Vehicles[i]
			s.vehicles[v.ID] = &v
		}
	}

	var rs rentalsSnapshot
	if ok, err := s.readSnapshot(rentalsFile, &rs); err != nil {
		return err
	} else if ok {
		s.nextRentalID = rs.NextRentalID
		s.nextTicketSeq = rs.NextTicketSeq
		for i := range rs.Rentals {
			r := rs.Rentals[i]
			s.rentals[r.ID] = &r
		}
	}

	var ms maintenanceSnapshot
	if ok, err := s.readSnapshot(maintenanceFile, &ms); err != nil {
		return err
	} else if ok {
		for i := range ms.Issues {
			issue := ms.Issues[i]
			s.issues[issue.ID] = &issue
		}
	}

	var as accountsSnapshot
	if ok, err := s.readSnapshot(accountsFile, &as); err != nil {
		return err
	} else if ok {
		for i := range as.Accounts {
			a := as.Accounts[i]
			s.accounts[a.Username] = &a
		}
	}

	return nil
}

func (s *Store) readSnapshot(name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// flush writes one snapshot atomically (temp file + rename). Callers hold
// at least a read lock over the maps being serialized. Failures are
// best-effort by design: logged, counted, and swallowed.
func (s *Store) flush(name string, snapshot any) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		s.recordSaveFailure(name, err)
		return
	}

	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.recordSaveFailure(name, err)
		return
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		s.recordSaveFailure(name, err)
	}
}

func (s *Store) recordSaveFailure(name string, err error) {
	s.saveFailures.Add(1)
	logger.Error("Snapshot save failed; in-memory state stands", "file", name, "error", err)
}

func (s *Store) flushVehiclesLocked() {
	snap := vehiclesSnapshot{NextVehicleID: s.nextVehicleID}
	for _, v := range s.vehicles {
		snap.Vehicles = append(snap.Vehicles, *v)
	}
	s.flush(vehiclesFile, snap)
}

func (s *Store) flushRentalsLocked() {
	snap := rentalsSnapshot{NextRentalID: s.nextRentalID, NextTicketSeq: s.nextTicketSeq}
	for _, r := range s.rentals {
		snap.Rentals = append(snap.Rentals, *r)
	}
	s.flush(rentalsFile, snap)
}

func (s *Store) flushMaintenanceLocked() {
	snap := maintenanceSnapshot{}
	for _, issue := range s.issues {
		snap.Issues = append(snap.Issues, *issue)
	}
	s.flush(maintenanceFile, snap)
}
