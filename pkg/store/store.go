// Package store keeps exactly one live instance per record id.
//
// A Store is the identity registry of one collection. Everything that needs
// the canonical instance of a record goes through GetOrCreate or Lookup, so
// a pointer obtained once stays valid for as long as the record is bound.
//
// Per-record lifecycle:
//
//	Absent ──GetOrCreate──> Created ──MarkSynced──> Synced ─┐
//	                           │                     ^      │ MarkSynced
//	                           │                     └──────┘
//	                           └────────Evict──────> Evicted
//
// Evicted ids are tombstoned. GetOrCreate refuses them until the owning
// collection calls Revive.
package store

import (
	"errors"
	"sync"
)

// ErrEvicted is returned by GetOrCreate for an evicted id.
var ErrEvicted = errors.New("record evicted")

// State is the lifecycle state of a record id.
type State uint8

const (
	StateAbsent State = iota
	StateCreated
	StateSynced
	StateEvicted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "ABSENT"
	case StateCreated:
		return "CREATED"
	case StateSynced:
		return "SYNCED"
	case StateEvicted:
		return "EVICTED"
	default:
		return "UNKNOWN"
	}
}

type entry[R any] struct {
	record *R
	state  State
}

// Store maps ids to their single live record instance.
// It is safe for concurrent use; lookups and creates are atomic with
// respect to each other.
type Store[K comparable, R any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[R]
	evicted map[K]struct{}
}

// New creates an empty store.
func New[K comparable, R any]() *Store[K, R] {
	return &Store[K, R]{
		entries: make(map[K]*entry[R]),
		evicted: make(map[K]struct{}),
	}
}

// GetOrCreate returns the instance bound to id. If there is none, create is
// called under the store lock and its result becomes the instance; created
// reports which case happened.
func (s *Store[K, R]) GetOrCreate(id K, create func() *R) (record *R, created bool, err error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return e.record, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have created it between the locks.
	if e, ok := s.entries[id]; ok {
		return e.record, false, nil
	}
	if _, ok := s.evicted[id]; ok {
		return nil, false, ErrEvicted
	}

	r := create()
	if r == nil {
		r = new(R)
	}
	s.entries[id] = &entry[R]{record: r, state: StateCreated}
	return r, true, nil
}

// Lookup returns the instance bound to id.
func (s *Store[K, R]) Lookup(id K) (*R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.record, true
}

// MarkSynced records that id's instance received a sync.
func (s *Store[K, R]) MarkSynced(id K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.state = StateSynced
	}
}

// Evict removes the binding for id and tombstones it. Holders of the
// instance keep their pointer but the store no longer hands it out.
// Returns false if id was not bound.
func (s *Store[K, R]) Evict(id K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	s.evicted[id] = struct{}{}
	return true
}

// Revive clears the tombstone of an evicted id so GetOrCreate may create
// a new instance for it. Returns false if id was not evicted.
func (s *Store[K, R]) Revive(id K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.evicted[id]; !ok {
		return false
	}
	delete(s.evicted, id)
	return true
}

// State returns the lifecycle state of id.
func (s *Store[K, R]) State(id K) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return e.state
	}
	if _, ok := s.evicted[id]; ok {
		return StateEvicted
	}
	return StateAbsent
}

// Len returns the number of bound records.
func (s *Store[K, R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IDs returns the bound ids in no particular order.
func (s *Store[K, R]) IDs() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]K, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids
}

// Range calls fn for each bound record until fn returns false. The store
// is not locked while fn runs.
func (s *Store[K, R]) Range(fn func(id K, record *R) bool) {
	s.mu.RLock()
	snapshot := make(map[K]*R, len(s.entries))
	for id, e := range s.entries {
		snapshot[id] = e.record
	}
	s.mu.RUnlock()

	for id, r := range snapshot {
		if !fn(id, r) {
			return
		}
	}
}

// Clear evicts every record and forgets all tombstones. Used when the
// owning session is torn down.
func (s *Store[K, R]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[K]*entry[R])
	s.evicted = make(map[K]struct{})
}
