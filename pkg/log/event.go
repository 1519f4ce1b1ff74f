package log

import "time"

// Event is one captured sync event. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the sync session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Collection is the record collection, such as "servicePlans".
	Collection string `cbor:"4,keyasint,omitempty"`

	// RecordID is the formatted record id.
	RecordID string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Decode      *DecodeEvent      `cbor:"10,keyasint,omitempty"`
	Sync        *SyncEvent        `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDecode indicates a payload was decoded.
	CategoryDecode Category = 0
	// CategorySync indicates a record was created or synced.
	CategorySync Category = 1
	// CategoryState indicates a record lifecycle change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDecode:
		return "DECODE"
	case CategorySync:
		return "SYNC"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	for c := CategoryDecode; c <= CategoryError; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// DecodeEvent captures the outcome of decoding one payload.
type DecodeEvent struct {
	// Keys is the number of top-level keys in the payload.
	Keys int `cbor:"1,keyasint"`

	// Issues lists field problems, if any.
	Issues []Issue `cbor:"2,keyasint,omitempty"`

	// Payload is the raw payload (CBOR-compatible representation).
	Payload any `cbor:"3,keyasint,omitempty"`
}

// Issue is one field problem found while decoding.
type Issue struct {
	Path    string `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`
}

// SyncEvent captures the fields a sync wrote.
type SyncEvent struct {
	// Created is true when the record did not exist before.
	Created bool `cbor:"1,keyasint,omitempty"`

	// Changes lists the changed field paths.
	Changes []string `cbor:"2,keyasint,omitempty"`
}

// StateChangeEvent captures record and session lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityRecord indicates a record lifecycle change.
	StateEntityRecord StateEntity = 0
	// StateEntitySession indicates a session lifecycle change.
	StateEntitySession StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityRecord:
		return "RECORD"
	case StateEntitySession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
