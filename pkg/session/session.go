package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peoplepower/ppsync-go/pkg/log"
	"github.com/peoplepower/ppsync-go/pkg/notify"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Session errors.
var (
	ErrClosed              = errors.New("session closed")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateCollection = errors.New("duplicate collection")
)

// Persister receives the encoded form of every record a session created or
// changed. Persist errors are logged and never fail a sync.
type Persister interface {
	Persist(collection string, id any, p wire.Payload) error
}

// Session is the sync scope of one login. Close it at teardown to release
// every record.
type Session struct {
	id         string
	logger     log.Logger
	slog       *slog.Logger
	dispatcher *notify.Dispatcher
	persister  Persister
	now        func() time.Time

	mu          sync.RWMutex
	collections map[string]Applier
	order       []string
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id. The default is a random UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithLogger sets the sync event logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSlog sets the operational logger.
func WithSlog(l *slog.Logger) Option {
	return func(s *Session) { s.slog = l }
}

// WithDispatcher sets the change dispatcher, for sharing one dispatcher
// across sessions.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(s *Session) { s.dispatcher = d }
}

// WithPersister sets the persistence collaborator.
func WithPersister(p Persister) Option {
	return func(s *Session) { s.persister = p }
}

// WithClock overrides the time source used for events.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session.
func New(opts ...Option) *Session {
	s := &Session{
		id:          uuid.NewString(),
		collections: make(map[string]Applier),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NoopLogger{}
	}
	if s.slog == nil {
		s.slog = slog.Default()
	}
	if s.dispatcher == nil {
		s.dispatcher = notify.NewDispatcher()
	}
	s.slog = s.slog.With("session", s.id)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Dispatcher returns the change dispatcher observers subscribe to.
func (s *Session) Dispatcher() *notify.Dispatcher { return s.dispatcher }

// Collection returns the collection registered under name.
func (s *Session) Collection(name string) (Applier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return c, nil
}

// Collections returns the registered collection names in registration
// order.
func (s *Session) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close clears every collection store. Records handed out before stay
// valid for their holders but are no longer tracked.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cols := make([]Applier, 0, len(s.order))
	for _, name := range s.order {
		cols = append(cols, s.collections[name])
	}
	s.mu.Unlock()

	for _, c := range cols {
		c.Clear()
	}
	s.logger.Log(log.Event{
		Timestamp: s.now(),
		SessionID: s.id,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySession,
			OldState: "OPEN",
			NewState: "CLOSED",
		},
	})
	s.slog.Debug("session closed", "collections", len(cols))
}

func (s *Session) register(c Applier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, dup := s.collections[c.Name()]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateCollection, c.Name())
	}
	s.collections[c.Name()] = c
	s.order = append(s.order, c.Name())
	return nil
}

func (s *Session) checkOpen() error {
	if s.Closed() {
		return ErrClosed
	}
	return nil
}

func (s *Session) event(collection, id string, cat log.Category) log.Event {
	return log.Event{
		Timestamp:  s.now(),
		SessionID:  s.id,
		Category:   cat,
		Collection: collection,
		RecordID:   id,
	}
}

func (s *Session) logError(collection, id, context string, err error) {
	e := s.event(collection, id, log.CategoryError)
	e.Error = &log.ErrorEventData{Message: err.Error(), Context: context}
	s.logger.Log(e)
}
