package cache

import (
	"sync"

	"github.com/matbott/spritmonitor-hass/internal/domain"
)

// Store keeps the single latest snapshot and the outcome of the refresh that
// produced it. There is never more than one snapshot: a successful refresh
// replaces the previous one wholesale, a failed refresh clears it. Metric
// accessors read through Latest on every call, so values are always computed
// against the current snapshot and never cached independently.
type Store struct {
	mu      sync.RWMutex
	snap    *domain.Snapshot
	healthy bool
}

// New returns an empty store; Available is false until the first successful
// refresh.
func New() *Store { return &Store{} }

// Update records the result of a refresh cycle. On failure the stored
// snapshot is dropped so that readers see unavailable rather than stale data.
func (s *Store) Update(snap *domain.Snapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.snap = nil
		s.healthy = false
		return
	}
	s.snap = snap
	s.healthy = true
}

// Latest returns the current snapshot, or nil when the last refresh failed
// or none has completed yet.
func (s *Store) Latest() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Available reports "last refresh succeeded AND snapshot is valid".
func (s *Store) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy && s.snap.Valid()
}
