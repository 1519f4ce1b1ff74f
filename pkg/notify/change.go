package notify

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a change.
type Kind uint8

const (
	// Created means the record did not exist before.
	Created Kind = iota
	// Updated means a sync wrote at least one field.
	Updated
	// Evicted means the record was removed from its collection.
	Evicted
)

// String returns the lower-case kind name used in NATS subjects.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Evicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Change describes what happened to one record.
type Change struct {
	Collection string    `json:"collection"`
	ID         any       `json:"id"`
	Kind       Kind      `json:"-"`
	Changes    []string  `json:"changes,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Touches reports whether the change wrote field or any path beneath it.
// Created and evicted changes touch every field.
func (c Change) Touches(field string) bool {
	if c.Kind != Updated {
		return true
	}
	for _, p := range c.Changes {
		if p == field {
			return true
		}
		if strings.HasPrefix(p, field) && len(p) > len(field) && (p[len(field)] == '.' || p[len(field)] == '[') {
			return true
		}
	}
	return false
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s/%v %s", c.Kind, c.Collection, c.ID, strings.Join(c.Changes, ","))
}

// Observer receives changes.
type Observer interface {
	OnChange(c Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

// OnChange calls f(c).
func (f ObserverFunc) OnChange(c Change) { f(c) }

// Filter narrows the changes an observer receives. Empty fields match
// everything.
type Filter struct {
	// Collection matches the collection name exactly.
	Collection string

	// IDs matches any of the listed record ids.
	IDs []any

	// Fields matches updates touching any of the listed fields.
	Fields []string
}

func (f Filter) matches(c Change) bool {
	if f.Collection != "" && f.Collection != c.Collection {
		return false
	}
	if len(f.IDs) > 0 {
		found := false
		for _, id := range f.IDs {
			if id == c.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Fields) > 0 {
		for _, field := range f.Fields {
			if c.Touches(field) {
				return true
			}
		}
		return false
	}
	return true
}
