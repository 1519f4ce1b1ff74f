package notify

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Dispatcher errors.
var (
	ErrResourceExhausted = errors.New("maximum observers reached")
	ErrObserverNotFound  = errors.New("observer not found")
)

// DefaultMaxObservers is the observer limit used when none is configured.
const DefaultMaxObservers = 64

// Config holds dispatcher configuration.
type Config struct {
	// MaxObservers is the maximum number of concurrent subscriptions.
	MaxObservers int
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{MaxObservers: DefaultMaxObservers}
}

type subscription struct {
	id       uint32
	filter   Filter
	observer Observer
}

// Dispatcher fans changes out to subscribed observers.
type Dispatcher struct {
	mu sync.RWMutex

	config Config
	nextID atomic.Uint32

	subs map[uint32]*subscription

	// byCollection indexes subscriptions with a collection filter;
	// wildcard holds the rest.
	byCollection map[string][]*subscription
	wildcard     []*subscription
}

// NewDispatcher creates a dispatcher with default configuration.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithConfig(DefaultConfig())
}

// NewDispatcherWithConfig creates a dispatcher with custom configuration.
func NewDispatcherWithConfig(config Config) *Dispatcher {
	if config.MaxObservers <= 0 {
		config.MaxObservers = DefaultMaxObservers
	}
	return &Dispatcher{
		config:       config,
		subs:         make(map[uint32]*subscription),
		byCollection: make(map[string][]*subscription),
	}
}

// Subscribe registers an observer and returns its subscription id.
func (d *Dispatcher) Subscribe(filter Filter, observer Observer) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.subs) >= d.config.MaxObservers {
		return 0, ErrResourceExhausted
	}

	sub := &subscription{id: d.nextID.Add(1), filter: filter, observer: observer}
	d.subs[sub.id] = sub
	if filter.Collection != "" {
		d.byCollection[filter.Collection] = append(d.byCollection[filter.Collection], sub)
	} else {
		d.wildcard = append(d.wildcard, sub)
	}
	return sub.id, nil
}

// Unsubscribe removes a subscription.
func (d *Dispatcher) Unsubscribe(id uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sub, ok := d.subs[id]
	if !ok {
		return ErrObserverNotFound
	}
	delete(d.subs, id)

	if c := sub.filter.Collection; c != "" {
		d.byCollection[c] = remove(d.byCollection[c], id)
		if len(d.byCollection[c]) == 0 {
			delete(d.byCollection, c)
		}
	} else {
		d.wildcard = remove(d.wildcard, id)
	}
	return nil
}

// Dispatch delivers c to every matching observer. Updates with no changed
// paths are dropped.
func (d *Dispatcher) Dispatch(c Change) {
	if c.Kind == Updated && len(c.Changes) == 0 {
		return
	}

	d.mu.RLock()
	targets := make([]*subscription, 0, len(d.wildcard)+len(d.byCollection[c.Collection]))
	targets = append(targets, d.byCollection[c.Collection]...)
	targets = append(targets, d.wildcard...)
	d.mu.RUnlock()

	for _, sub := range targets {
		if sub.filter.matches(c) {
			sub.observer.OnChange(c)
		}
	}
}

// Count returns the number of active subscriptions.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

// ClearAll removes every subscription.
func (d *Dispatcher) ClearAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = make(map[uint32]*subscription)
	d.byCollection = make(map[string][]*subscription)
	d.wildcard = nil
}

func remove(subs []*subscription, id uint32) []*subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}
