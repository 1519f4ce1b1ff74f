package log

import (
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp:  ts,
		SessionID:  "abc12345-def6-7890-abcd-ef1234567890",
		Category:   CategorySync,
		Collection: "servicePlans",
		RecordID:   "7",
		Sync: &SyncEvent{
			Changes: []string{"available", "prices[1].name"},
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("UnmarshalEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Collection != "servicePlans" || decoded.RecordID != "7" {
		t.Errorf("record: got %s/%s", decoded.Collection, decoded.RecordID)
	}
	if decoded.Sync == nil {
		t.Fatal("Sync is nil")
	}
	if len(decoded.Sync.Changes) != 2 || decoded.Sync.Changes[1] != "prices[1].name" {
		t.Errorf("Changes: got %v", decoded.Sync.Changes)
	}
	if decoded.Decode != nil || decoded.Error != nil || decoded.StateChange != nil {
		t.Error("unexpected type-specific payload")
	}
}

func TestDecodeEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now().UTC(),
		Category:  CategoryDecode,
		Decode: &DecodeEvent{
			Keys:    3,
			Issues:  []Issue{{Path: "status", Message: "unrecognized enum value"}},
			Payload: map[string]any{"planId": uint64(7), "desc": "A"},
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("UnmarshalEvent failed: %v", err)
	}

	if decoded.Decode == nil {
		t.Fatal("Decode is nil")
	}
	if decoded.Decode.Keys != 3 {
		t.Errorf("Keys: got %d, want 3", decoded.Decode.Keys)
	}
	if len(decoded.Decode.Issues) != 1 || decoded.Decode.Issues[0].Path != "status" {
		t.Errorf("Issues: got %+v", decoded.Decode.Issues)
	}
	payload, ok := decoded.Decode.Payload.(map[string]any)
	if !ok {
		t.Fatalf("Payload: got %T, want map[string]any", decoded.Decode.Payload)
	}
	if payload["desc"] != "A" {
		t.Errorf("Payload desc: got %v", payload["desc"])
	}
}

func TestStateAndErrorEventCBORRoundTrip(t *testing.T) {
	events := []Event{
		{
			Category: CategoryState,
			StateChange: &StateChangeEvent{
				Entity:   StateEntityRecord,
				OldState: "SYNCED",
				NewState: "EVICTED",
				Reason:   "server removed record",
			},
		},
		{
			Category: CategoryError,
			Error:    &ErrorEventData{Message: "missing identity", Context: "apply"},
		},
	}

	for _, original := range events {
		data, err := EncodeEvent(original)
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		decoded, err := UnmarshalEvent(data)
		if err != nil {
			t.Fatalf("UnmarshalEvent failed: %v", err)
		}
		switch original.Category {
		case CategoryState:
			if decoded.StateChange == nil || *decoded.StateChange != *original.StateChange {
				t.Errorf("StateChange: got %+v, want %+v", decoded.StateChange, original.StateChange)
			}
		case CategoryError:
			if decoded.Error == nil || *decoded.Error != *original.Error {
				t.Errorf("Error: got %+v, want %+v", decoded.Error, original.Error)
			}
		}
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	data, err := EncodeEvent(Event{SessionID: "s", Category: CategoryDecode})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	var raw map[any]any
	if err := cbor.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for k := range raw {
		if _, ok := k.(uint64); !ok {
			t.Errorf("key %v has type %T, want uint64", k, k)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryDecode, "DECODE"},
		{CategorySync, "SYNC"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}

	c, ok := ParseCategory("SYNC")
	if !ok || c != CategorySync {
		t.Errorf("ParseCategory(SYNC) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("BOGUS"); ok {
		t.Error("ParseCategory(BOGUS) should fail")
	}
}
