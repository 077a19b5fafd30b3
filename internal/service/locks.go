package service

import "sync"

// LockSet serializes all mutations touching one vehicle: ledger, status,
// ticket, and maintenance writes for a vehicle id never interleave, while
// different vehicles proceed in parallel. One LockSet is shared by every
// service that mutates vehicles.
type LockSet struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLockSet() *LockSet {
	return &LockSet{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the vehicle's mutex and returns its release func.
func (ls *LockSet) Lock(vehicleID int64) func() {
	ls.mu.Lock()
	l, ok := ls.locks[vehicleID]
	if !ok {
		l = &sync.Mutex{}
		ls.locks[vehicleID] = l
	}
	ls.mu.Unlock()

	l.Lock()
	return l.Unlock
}
