package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/peoplepower/ppsync-go/pkg/log"
)

func TestViewAllEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewOptions{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:30:00.000000Z [session:session-] DECODE servicePlans/7",
		"Issue: status: unrecognized enum value",
		"Created",
		"Changes: desc",
		"Message: disk full",
		"Context: persist",
		"OPEN -> CLOSED",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestViewFilterByCategory(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewOptions{Category: "sync"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if got := strings.Count(output, " SYNC "); got != 2 {
		t.Errorf("expected 2 sync events, got %d:\n%s", got, output)
	}
	if strings.Contains(output, "DECODE") {
		t.Error("decode event should be filtered out")
	}
}

func TestViewFilterByRecordAndTime(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	opts := ViewOptions{
		Collection: "servicePlans",
		RecordID:   "7",
		TimeStart:  "2026-03-02T09:30:01Z",
	}
	if err := RunView(path, opts, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if strings.Contains(output, "DECODE") {
		t.Error("event before time-start should be filtered out")
	}
	if strings.Contains(output, "devices") {
		t.Error("other collections should be filtered out")
	}
	if !strings.Contains(output, "Changes: desc") {
		t.Errorf("expected update in output:\n%s", output)
	}
}

func TestViewInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	if err := RunView(path, ViewOptions{Category: "bogus"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid category")
	}
	if err := RunView(path, ViewOptions{TimeEnd: "yesterday"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for invalid time")
	}
	if err := RunView("/nonexistent/file.plog", ViewOptions{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		in   string
		want log.Category
	}{
		{"decode", log.CategoryDecode},
		{"SYNC", log.CategorySync},
		{"State", log.CategoryState},
		{"error", log.CategoryError},
	}
	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.in)
		if err != nil {
			t.Errorf("ParseCategoryFlag(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
