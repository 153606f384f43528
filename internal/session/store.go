// Package session keeps per-user conversation state in memory and
// serializes all access to it.
package session

import (
	"sync"

	"github.com/cadolab/giftbot/internal/dialog"
)

// Store owns one dialog.Session per Telegram user. Do is the only way
// in: it holds a per-user lock for the whole closure, so events from
// the same user are applied strictly one at a time (including slow
// work such as a generation call), while other users proceed freely.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	sess dialog.Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

func (s *Store) entryFor(userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{}
		s.entries[userID] = e
	}
	return e
}

// Do runs fn with exclusive access to the user's session. Mutations
// made by fn are retained.
func (s *Store) Do(userID int64, fn func(*dialog.Session)) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.sess)
}

// Snapshot returns a copy of the user's session for inspection. The
// copy shares the LastDone pointer; callers must not mutate it.
func (s *Store) Snapshot(userID int64) dialog.Session {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess
}

// Len reports how many users have session state.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
