// Package notify delivers record change notifications to observers.
//
// A session dispatches one Change per record that was created, updated
// with a non-empty change set, or evicted. Observers subscribe with a
// Filter that narrows the collection, the record ids and the changed
// fields they care about:
//
//	d := notify.NewDispatcher()
//	id, _ := d.Subscribe(notify.Filter{Collection: "servicePlans", Fields: []string{"available"}},
//	    notify.ObserverFunc(func(c notify.Change) { ... }))
//	defer d.Unsubscribe(id)
//
// Observers are called synchronously on the dispatching goroutine, outside
// the dispatcher lock. NATSPublisher forwards changes to a NATS subject.
package notify
