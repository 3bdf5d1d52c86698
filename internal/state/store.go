package state

import (
	"fmt"
	"sync"
	"time"
)

// DefaultNotRespondingHold is how long a transport failure stays visible.
const DefaultNotRespondingHold = 2 * time.Second

// Snapshot represents the latest link status available to the UI.
type Snapshot struct {
	LastSync            time.Time
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive sync failures
	NotRespondingUntil  time.Time
}

// IsOffline returns true when the relay has been unreachable for multiple syncs.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// NotResponding reports whether the transient failure notice is still shown.
func (s Snapshot) NotResponding(now time.Time) bool {
	return !s.NotRespondingUntil.IsZero() && now.Before(s.NotRespondingUntil)
}

// Store coordinates updates to the link status. Writers are the UI loop and
// the dispatcher error relay.
type Store struct {
	// Hold is how long a failure notice lasts; zero uses the default.
	Hold time.Duration

	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the result of a sync exchange. A nil err resets the
// failure counter; otherwise the error is kept and the notice raised.
func (s *Store) Update(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastUpdated = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		s.snapshot.NotRespondingUntil = now.Add(s.hold())
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.LastSync = now
	s.snapshot.ConsecutiveFailures = 0
}

// NoteFailure raises the notice for a failure outside the sync exchange,
// such as a dropped point, without touching the sync failure counter.
func (s *Store) NoteFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = now
	s.snapshot.NotRespondingUntil = now.Add(s.hold())
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) hold() time.Duration {
	if s.Hold <= 0 {
		return DefaultNotRespondingHold
	}
	return s.Hold
}
