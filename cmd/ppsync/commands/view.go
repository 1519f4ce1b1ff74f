// Package commands implements the ppsync CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peoplepower/ppsync-go/pkg/log"
)

// ViewOptions selects the events the view command prints.
type ViewOptions struct {
	SessionID  string
	Collection string
	RecordID   string
	Category   string
	TimeStart  string
	TimeEnd    string
}

// Filter converts the options into a log filter.
func (o ViewOptions) Filter() (log.Filter, error) {
	f := log.Filter{
		SessionID:  o.SessionID,
		Collection: o.Collection,
		RecordID:   o.RecordID,
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return f, err
		}
		f.Category = &c
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return f, fmt.Errorf("invalid time-start: %w", err)
		}
		f.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return f, fmt.Errorf("invalid time-end: %w", err)
		}
		f.TimeEnd = &t
	}
	return f, nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	target := event.Collection
	if event.RecordID != "" {
		target += "/" + event.RecordID
	}
	if target == "" {
		target = "-"
	}
	fmt.Fprintf(w, "%s [session:%s] %-6s %s\n", ts, shortenID(event.SessionID), event.Category, target)

	switch {
	case event.Decode != nil:
		formatDecodeDetails(w, event.Decode)
	case event.Sync != nil:
		formatSyncDetails(w, event.Sync)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a session id.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatDecodeDetails(w io.Writer, d *log.DecodeEvent) {
	fmt.Fprintf(w, "  Keys: %d\n", d.Keys)
	for _, issue := range d.Issues {
		fmt.Fprintf(w, "  Issue: %s: %s\n", issue.Path, issue.Message)
	}
	if d.Payload != nil {
		if data, err := json.Marshal(d.Payload); err == nil {
			fmt.Fprintf(w, "  Payload: %s\n", data)
		}
	}
}

func formatSyncDetails(w io.Writer, s *log.SyncEvent) {
	if s.Created {
		fmt.Fprintln(w, "  Created")
	}
	if len(s.Changes) > 0 {
		fmt.Fprintf(w, "  Changes: %s\n", strings.Join(s.Changes, ", "))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseCategoryFlag parses a category string from a command-line flag
// (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be decode, sync, state, or error)", s)
	}
	return c, nil
}

// RunView prints the events of a log file that match opts.
func RunView(path string, opts ViewOptions, output io.Writer) error {
	filter, err := opts.Filter()
	if err != nil {
		return err
	}
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
