// Package state holds the single source of truth for what the client
// renders. Readers get copies through Store; only holders of the Writer
// returned by New can mutate it, and controllers are the only holders.
package state

import (
	"sync"

	"github.com/mmcdole/docsift/internal/domain"
)

// View is the presentation state of the results area
type View int

const (
	ViewPristine  View = iota // No query submitted yet
	ViewLoading               // Search in flight, nothing to show yet
	ViewNoMatches             // Query submitted, empty result
	ViewResults               // Non-empty result list
)

// Snapshot is an immutable copy of the store contents
type Snapshot struct {
	Query   domain.SearchQuery
	Results domain.SearchResult
	Loading bool

	Uploading       bool
	DropHighlighted bool

	Stats       domain.LibraryStats
	StatsLoaded bool

	Health        domain.Health
	HealthChecked bool
	Online        bool

	// SearchNotice is a transient message about the latest search
	SearchNotice string

	// Notices are queued user-visible messages, oldest first
	Notices []domain.Notice
}

// View derives the results-area presentation state
func (s Snapshot) View() View {
	switch {
	case len(s.Results) > 0:
		return ViewResults
	case s.Loading:
		return ViewLoading
	case !s.Query.IsEmpty():
		return ViewNoMatches
	default:
		return ViewPristine
	}
}

// PendingNotice returns the oldest queued notice
func (s Snapshot) PendingNotice() (domain.Notice, bool) {
	if len(s.Notices) == 0 {
		return domain.Notice{}, false
	}
	return s.Notices[0], true
}

// Store is the read side of the application state
type Store struct {
	mu   sync.RWMutex
	data Snapshot
	seq  uint64 // last issued search sequence number

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int
}

// New creates an empty store and the only Writer that can mutate it
func New() (*Store, *Writer) {
	s := &Store{observers: make(map[int]func())}
	return s, &Writer{s: s}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.data
	snap.Results = append(domain.SearchResult(nil), s.data.Results...)
	snap.Notices = append([]domain.Notice(nil), s.data.Notices...)
	snap.Stats.Files = make(map[string]domain.FileInfo, len(s.data.Stats.Files))
	for k, v := range s.data.Stats.Files {
		snap.Stats.Files[k] = v
	}
	return snap
}

// Subscribe registers fn to run after every mutation.
// Returns an unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// update applies fn under the write lock and notifies observers if it
// reports a change
func (s *Store) update(fn func(d *Snapshot) bool) bool {
	s.mu.Lock()
	changed := fn(&s.data)
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return changed
}

func (s *Store) notify() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
