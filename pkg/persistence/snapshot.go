package persistence

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/peoplepower/ppsync-go/pkg/version"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Snapshot is the on-disk form of a SnapshotStore.
type Snapshot struct {
	// Version is the snapshot file format version, "major.minor".
	Version string `json:"version"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// SessionID identifies the session the records came from.
	SessionID string `json:"session_id,omitempty"`

	// Collections maps collection names to their records, ordered by id.
	Collections map[string][]Entry `json:"collections,omitempty"`
}

// Entry is one persisted record.
type Entry struct {
	ID     string       `json:"id"`
	Record wire.Payload `json:"record"`
}

// SnapshotStore collects persisted records in memory and saves them to a
// JSON file. It is safe for concurrent use.
type SnapshotStore struct {
	mu      sync.Mutex
	path    string
	records map[string]map[string]wire.Payload
}

// NewSnapshotStore creates a store that saves to path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{
		path:    path,
		records: make(map[string]map[string]wire.Payload),
	}
}

// Persist records the latest payload of a record, replacing any earlier one.
func (s *SnapshotStore) Persist(collection string, id any, p wire.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, ok := s.records[collection]
	if !ok {
		recs = make(map[string]wire.Payload)
		s.records[collection] = recs
	}
	recs[fmt.Sprint(id)] = p
	return nil
}

// Entries returns the persisted records of a collection ordered by id.
func (s *SnapshotStore) Entries(collection string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries(collection)
}

func (s *SnapshotStore) entries(collection string) []Entry {
	recs := s.records[collection]
	out := make([]Entry, 0, len(recs))
	for id, p := range recs {
		out = append(out, Entry{ID: id, Record: p})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Save writes every persisted record to disk.
func (s *SnapshotStore) Save(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Version:     version.Current,
		SavedAt:     time.Now().UTC(),
		SessionID:   sessionID,
		Collections: make(map[string][]Entry, len(s.records)),
	}
	for name := range s.records {
		snap.Collections[name] = s.entries(name)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Load reads the snapshot from disk. Returns nil, nil if the file doesn't
// exist.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	if _, err := version.Check(snap.Version); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.path, err)
	}
	return snap, nil
}

// Clear forgets every record and removes the snapshot file.
func (s *SnapshotStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]map[string]wire.Payload)
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
