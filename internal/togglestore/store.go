// Package togglestore implements small persisted sets of tagged listing URLs
// (favorites and dislikes) with synchronous change notification.
package togglestore

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Listener receives the current membership after every successful mutation.
// The slice is sorted and owned by the listener.
type Listener func(keys []string)

// Store is a named persisted set of opaque string keys. Persistence is
// best-effort: a failing backend never fails a mutation, the in-memory set
// stays authoritative for the rest of the process.
type Store struct {
	name    string
	storage Storage
	log     *zap.Logger

	mu        sync.Mutex
	loaded    bool
	keys      map[string]struct{}
	listeners map[int]Listener
	nextSub   int
}

// New creates a store named name over storage. The backing entry is read
// lazily on first access. logger may be nil.
func New(name string, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		name:      name,
		storage:   storage,
		log:       logger,
		keys:      make(map[string]struct{}),
		listeners: make(map[int]Listener),
	}
}

// Name returns the store name ("favorite", "dislikes").
func (s *Store) Name() string { return s.name }

// load reads the persisted entry once. Malformed or unreadable data starts
// the store empty. Callers hold s.mu.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	keys, err := s.storage.Load(s.name)
	if err != nil {
		s.log.Debug("toggle store load failed, starting empty",
			zap.String("store", s.name), zap.Error(err))
		return
	}
	for _, k := range keys {
		if k != "" {
			s.keys[k] = struct{}{}
		}
	}
}

// persist writes the current membership back. Failures are swallowed.
// Callers hold s.mu.
func (s *Store) persist() {
	if err := s.storage.Save(s.name, s.sortedLocked()); err != nil {
		s.log.Debug("toggle store save failed, keeping in-memory state",
			zap.String("store", s.name), zap.Error(err))
	}
}

func (s *Store) sortedLocked() []string {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// listenersLocked returns listeners in subscription order.
func (s *Store) listenersLocked() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

// commit persists the mutated set and notifies listeners synchronously,
// outside the lock, so a listener may read back into the store.
func (s *Store) commit() {
	s.persist()
	fns := s.listenersLocked()
	snapshot := s.sortedLocked()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// Has reports whether key is in the set.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	_, ok := s.keys[key]
	return ok
}

// Add inserts key, persists, and notifies listeners. Adding a present key is
// a no-op and does not notify.
func (s *Store) Add(key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.load()
	if _, ok := s.keys[key]; ok {
		s.mu.Unlock()
		return
	}
	s.keys[key] = struct{}{}
	s.commit()
}

// Remove deletes key, persists, and notifies listeners. Removing an absent
// key is a no-op and does not notify.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	s.load()
	if _, ok := s.keys[key]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.keys, key)
	s.commit()
}

// Toggle flips key's membership and returns the new state.
func (s *Store) Toggle(key string) bool {
	if key == "" {
		return false
	}
	s.mu.Lock()
	s.load()
	_, present := s.keys[key]
	if present {
		delete(s.keys, key)
	} else {
		s.keys[key] = struct{}{}
	}
	s.commit()
	return !present
}

// All returns the current membership, sorted.
func (s *Store) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.sortedLocked()
}

// Len returns the membership size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return len(s.keys)
}

// SeedIfEmpty populates the store with defaults, but only when the set is
// empty at call time. A one-time bootstrap: once the store holds anything,
// later calls are no-ops.
func (s *Store) SeedIfEmpty(defaults []string) {
	s.mu.Lock()
	s.load()
	if len(s.keys) > 0 {
		s.mu.Unlock()
		return
	}
	added := false
	for _, k := range defaults {
		if k != "" {
			s.keys[k] = struct{}{}
			added = true
		}
	}
	if !added {
		s.mu.Unlock()
		return
	}
	s.commit()
}

// Subscribe registers a listener and returns its unsubscribe function. The
// listener is invoked once synchronously with the current membership before
// Subscribe returns.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.load()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	current := s.sortedLocked()
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
