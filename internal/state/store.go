package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
)

// Snapshot represents the latest room history seen by the watcher.
type Snapshot struct {
	Room                string
	Messages            []hipchat.HistoryItem
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when HipChat has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	seen     map[string]struct{}
}

// Update replaces the stored history for room and returns the messages that
// were not part of the previous successful update. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(room string, messages []hipchat.HistoryItem, err error) []hipchat.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return nil
	}

	if s.snapshot.Room != room {
		s.seen = nil
	}
	// Only the latest batch is remembered; messages that leave the recent
	// window do not come back.
	seen := make(map[string]struct{}, len(messages))
	var fresh []hipchat.HistoryItem
	for _, item := range messages {
		seen[item.ID] = struct{}{}
		if _, ok := s.seen[item.ID]; ok {
			continue
		}
		fresh = append(fresh, item)
	}
	s.seen = seen

	s.snapshot.Room = room
	s.snapshot.Messages = cloneMessages(messages)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return fresh
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Messages = cloneMessages(s.snapshot.Messages)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneMessages(items []hipchat.HistoryItem) []hipchat.HistoryItem {
	if len(items) == 0 {
		return nil
	}
	dup := make([]hipchat.HistoryItem, len(items))
	copy(dup, items)
	return dup
}
