package session

import (
	"errors"
	"fmt"

	"github.com/peoplepower/ppsync-go/pkg/log"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/notify"
	"github.com/peoplepower/ppsync-go/pkg/store"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Result is the outcome of applying one payload.
type Result[K comparable, R any] struct {
	ID      K
	Record  *R
	Created bool
	Changes model.ChangeSet

	// Issues holds the non-fatal decode problems, or nil.
	Issues error
}

// BatchFailure is a payload of a batch that could not be applied.
type BatchFailure struct {
	Index int
	Err   error
}

// BatchResult is the outcome of ApplyBatch.
type BatchResult[K comparable, R any] struct {
	Results  []Result[K, R]
	Failures []BatchFailure
}

// Err joins the failures, or returns nil if every payload was applied.
func (b BatchResult[K, R]) Err() error {
	errs := make([]error, len(b.Failures))
	for i, f := range b.Failures {
		errs[i] = fmt.Errorf("payload %d: %w", f.Index, f.Err)
	}
	return errors.Join(errs...)
}

// Collection is the set of live records of one kind in a session.
type Collection[K comparable, R any] struct {
	s     *Session
	name  string
	table *model.Table[R]
	key   func(*R) K
	store *store.Store[K, R]
}

// Register adds a collection to s. key extracts the store id from a
// decoded record; it is only called on records whose identity decoded. It
// panics if name is already registered or the session is closed.
func Register[K comparable, R any](s *Session, name string, table *model.Table[R], key func(*R) K) *Collection[K, R] {
	c := &Collection[K, R]{
		s:     s,
		name:  name,
		table: table,
		key:   key,
		store: store.New[K, R](),
	}
	if err := s.register(c); err != nil {
		panic(fmt.Sprintf("session: register %s: %v", name, err))
	}
	return c
}

// Name returns the collection name.
func (c *Collection[K, R]) Name() string { return c.name }

// Table returns the collection's field table.
func (c *Collection[K, R]) Table() *model.Table[R] { return c.table }

// Apply decodes p and merges it into the live record with the same id,
// creating the record if needed.
//
// A payload without identity fails with an error wrapping
// model.ErrMissingIdentity. An evicted id fails with store.ErrEvicted.
// Field-level decode problems do not fail Apply; they are returned in
// Result.Issues.
func (c *Collection[K, R]) Apply(p wire.Payload) (Result[K, R], error) {
	var res Result[K, R]
	if err := c.s.checkOpen(); err != nil {
		return res, err
	}

	candidate, decodeErr := c.table.Decode(p)
	res.Issues = decodeErr
	if candidate == nil {
		c.logDecode("", p, decodeErr)
		c.s.logError(c.name, "", "apply", decodeErr)
		return res, fmt.Errorf("%s: %w", c.name, decodeErr)
	}

	id := c.key(candidate)
	rid := fmt.Sprint(id)
	c.logDecode(rid, p, decodeErr)

	record, created, err := c.store.GetOrCreate(id, func() *R { return candidate })
	if err != nil {
		c.s.logError(c.name, rid, "apply", err)
		return res, fmt.Errorf("%s %s: %w", c.name, rid, err)
	}

	var changes model.ChangeSet
	if created {
		changes = c.table.Populated(record)
	} else {
		changes = c.table.Sync(record, candidate)
	}
	c.store.MarkSynced(id)

	res.ID = id
	res.Record = record
	res.Created = created
	res.Changes = changes
	c.publish(id, rid, record, created, changes)
	return res, nil
}

// ApplyBatch applies every payload in order, continuing past failures.
func (c *Collection[K, R]) ApplyBatch(ps []wire.Payload) BatchResult[K, R] {
	var out BatchResult[K, R]
	for i, p := range ps {
		res, err := c.Apply(p)
		if err != nil {
			out.Failures = append(out.Failures, BatchFailure{Index: i, Err: err})
			continue
		}
		out.Results = append(out.Results, res)
	}
	return out
}

// Patch merges a partial payload into the live record id. The payload
// need not carry identity fields.
func (c *Collection[K, R]) Patch(id K, p wire.Payload) (Result[K, R], error) {
	var res Result[K, R]
	if err := c.s.checkOpen(); err != nil {
		return res, err
	}
	rid := fmt.Sprint(id)
	record, ok := c.store.Lookup(id)
	if !ok {
		return res, fmt.Errorf("%s %s: %w", c.name, rid, ErrNotFound)
	}

	changes, decodeErr := c.table.Patch(record, p)
	c.logDecode(rid, p, decodeErr)
	c.store.MarkSynced(id)

	res.ID = id
	res.Record = record
	res.Changes = changes
	res.Issues = decodeErr
	c.publish(id, rid, record, false, changes)
	return res, nil
}

// Lookup returns the live record bound to id.
func (c *Collection[K, R]) Lookup(id K) (*R, bool) {
	return c.store.Lookup(id)
}

// Get returns the live record bound to id or ErrNotFound.
func (c *Collection[K, R]) Get(id K) (*R, error) {
	r, ok := c.store.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%s %v: %w", c.name, id, ErrNotFound)
	}
	return r, nil
}

// Resolve follows a weak reference into this collection.
func (c *Collection[K, R]) Resolve(ref store.Ref[K]) (*R, bool) {
	return c.store.Resolve(ref)
}

// State returns the lifecycle state of id.
func (c *Collection[K, R]) State(id K) store.State {
	return c.store.State(id)
}

// Evict unbinds id and tombstones it. Observers receive an Evicted change.
func (c *Collection[K, R]) Evict(id K) bool {
	old := c.store.State(id)
	if !c.store.Evict(id) {
		return false
	}
	rid := fmt.Sprint(id)
	c.logState(rid, old, store.StateEvicted, "evicted")
	c.s.dispatcher.Dispatch(notify.Change{
		Collection: c.name,
		ID:         id,
		Kind:       notify.Evicted,
		Timestamp:  c.s.now(),
	})
	return true
}

// Revive allows an evicted id to be created again, for records the server
// re-created.
func (c *Collection[K, R]) Revive(id K) bool {
	if !c.store.Revive(id) {
		return false
	}
	c.logState(fmt.Sprint(id), store.StateEvicted, store.StateAbsent, "revived")
	return true
}

// Len returns the number of live records.
func (c *Collection[K, R]) Len() int { return c.store.Len() }

// IDs returns the live record ids.
func (c *Collection[K, R]) IDs() []K { return c.store.IDs() }

// Range calls fn for every live record until fn returns false.
func (c *Collection[K, R]) Range(fn func(id K, record *R) bool) {
	c.store.Range(fn)
}

// Clear drops every record and tombstone.
func (c *Collection[K, R]) Clear() { c.store.Clear() }

func (c *Collection[K, R]) publish(id K, rid string, record *R, created bool, changes model.ChangeSet) {
	if !created && changes.Empty() {
		return
	}

	e := c.s.event(c.name, rid, log.CategorySync)
	e.Sync = &log.SyncEvent{Created: created, Changes: changes.Paths()}
	c.s.logger.Log(e)

	kind := notify.Updated
	if created {
		kind = notify.Created
	}
	c.s.dispatcher.Dispatch(notify.Change{
		Collection: c.name,
		ID:         id,
		Kind:       kind,
		Changes:    changes.Paths(),
		Timestamp:  c.s.now(),
	})

	if c.s.persister != nil {
		if err := c.s.persister.Persist(c.name, id, c.table.Encode(record)); err != nil {
			c.s.logError(c.name, rid, "persist", err)
			c.s.slog.Warn("persist failed", "collection", c.name, "id", rid, "error", err)
		}
	}
}

func (c *Collection[K, R]) logDecode(rid string, p wire.Payload, decodeErr error) {
	e := c.s.event(c.name, rid, log.CategoryDecode)
	e.Decode = &log.DecodeEvent{Keys: len(p), Payload: map[string]any(p)}
	var de *model.DecodeError
	if errors.As(decodeErr, &de) {
		for _, issue := range de.Issues {
			e.Decode.Issues = append(e.Decode.Issues, log.Issue{Path: issue.Path, Message: issue.Err.Error()})
		}
	}
	c.s.logger.Log(e)
}

func (c *Collection[K, R]) logState(rid string, from, to store.State, reason string) {
	e := c.s.event(c.name, rid, log.CategoryState)
	e.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityRecord,
		OldState: from.String(),
		NewState: to.String(),
		Reason:   reason,
	}
	c.s.logger.Log(e)
}
