package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peoplepower/ppsync-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

var testTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp:  testTime,
			SessionID:  "session-one",
			Category:   log.CategoryDecode,
			Collection: "servicePlans",
			RecordID:   "7",
			Decode: &log.DecodeEvent{
				Keys:   3,
				Issues: []log.Issue{{Path: "status", Message: "unrecognized enum value: plan status 99"}},
			},
		},
		{
			Timestamp:  testTime.Add(time.Second),
			SessionID:  "session-one",
			Category:   log.CategorySync,
			Collection: "servicePlans",
			RecordID:   "7",
			Sync:       &log.SyncEvent{Created: true, Changes: []string{"planId", "status"}},
		},
		{
			Timestamp:  testTime.Add(2 * time.Second),
			SessionID:  "session-one",
			Category:   log.CategorySync,
			Collection: "servicePlans",
			RecordID:   "7",
			Sync:       &log.SyncEvent{Changes: []string{"desc"}},
		},
		{
			Timestamp:  testTime.Add(3 * time.Second),
			SessionID:  "session-one",
			Category:   log.CategoryError,
			Collection: "devices",
			RecordID:   "1/cam",
			Error:      &log.ErrorEventData{Message: "disk full", Context: "persist"},
		},
		{
			Timestamp: testTime.Add(4 * time.Second),
			SessionID: "session-one",
			Category:  log.CategoryState,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntitySession,
				OldState: "OPEN",
				NewState: "CLOSED",
			},
		},
	}
}
