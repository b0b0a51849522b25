// Package state owns the current energy snapshot and a bounded rolling
// history. The scheduler is the only writer; agents and external consumers
// read through Current and History and never observe a partially updated
// snapshot.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/gridpilot/gridpilot/core/model"
)

// Store holds the latest committed snapshot and a fixed-capacity ring of
// past snapshots. Commit is the single mutation entry point.
type Store struct {
	mu      sync.RWMutex
	current model.EnergySnapshot
	ring    []model.EnergySnapshot
	next    int // write cursor
	size    int
}

// New creates a store with the given history capacity. The initial snapshot
// is returned by Current before the first commit and anchors timestamp
// monotonicity; it is not part of history.
func New(capacity int, initial model.EnergySnapshot) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		current: initial,
		ring:    make([]model.EnergySnapshot, capacity),
	}
}

// Capacity returns the fixed history capacity.
func (s *Store) Capacity() int { return len(s.ring) }

// Len returns the number of snapshots currently held in history.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Current returns the latest committed snapshot, or the initial snapshot
// before the first commit.
func (s *Store) Current() model.EnergySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// History returns up to window snapshots in chronological order, oldest
// first. A window larger than the populated history returns everything held.
func (s *Store) History(window int) []model.EnergySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if window > s.size {
		window = s.size
	}
	if window <= 0 {
		return nil
	}
	out := make([]model.EnergySnapshot, window)
	start := s.next - window
	if start < 0 {
		start += len(s.ring)
	}
	for i := 0; i < window; i++ {
		out[i] = s.ring[(start+i)%len(s.ring)]
	}
	return out
}

// Commit appends snap to history, evicting the oldest entry when full, and
// atomically swaps the current snapshot. It fails with ErrInvalidSnapshot
// when the timestamp does not advance, leaving the store unchanged.
func (s *Store) Commit(snap model.EnergySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !snap.Timestamp.After(s.current.Timestamp) {
		return fmt.Errorf("%w: timestamp %s does not advance current %s",
			model.ErrInvalidSnapshot, snap.Timestamp.Format(time.RFC3339), s.current.Timestamp.Format(time.RFC3339))
	}
	s.ring[s.next] = snap
	s.next = (s.next + 1) % len(s.ring)
	if s.size < len(s.ring) {
		s.size++
	}
	s.current = snap
	return nil
}
