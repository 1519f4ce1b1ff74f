package commands

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/peoplepower/ppsync-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents        int
	EventsByCategory   map[log.Category]int
	EventsByCollection map[string]int
	Sessions           map[string]*SessionStats
	Created            int
	Changes            int
	Issues             int
	Errors             int
	TimeRange          struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Closed    bool
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:   make(map[log.Category]int),
		EventsByCollection: make(map[string]int),
		Sessions:           make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	if event.Collection != "" {
		s.EventsByCollection[event.Collection]++
	}

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}

	switch {
	case event.Sync != nil:
		if event.Sync.Created {
			s.Created++
		}
		s.Changes += len(event.Sync.Changes)
	case event.Decode != nil:
		s.Issues += len(event.Decode.Issues)
	case event.StateChange != nil:
		if event.StateChange.Entity == log.StateEntitySession && event.StateChange.NewState == "CLOSED" {
			sess.Closed = true
		}
	case event.Error != nil:
		s.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Sync Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryDecode, log.CategorySync, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.EventsByCollection) > 0 {
		fmt.Fprintln(w, "Events by Collection:")
		names := make([]string, 0, len(stats.EventsByCollection))
		for n := range stats.EventsByCollection {
			names = append(names, n)
		}
		slices.Sort(names)
		for _, n := range names {
			fmt.Fprintf(w, "  %-24s %d\n", n+":", stats.EventsByCollection[n])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Records Created: %d\n", stats.Created)
	fmt.Fprintf(w, "Field Changes:   %d\n", stats.Changes)
	fmt.Fprintf(w, "Decode Issues:   %d\n", stats.Issues)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	type sessInfo struct {
		id    string
		stats *SessionStats
	}
	sessions := make([]sessInfo, 0, len(stats.Sessions))
	for id, ss := range stats.Sessions {
		sessions = append(sessions, sessInfo{id, ss})
	}
	slices.SortFunc(sessions, func(a, b sessInfo) int {
		return a.stats.FirstSeen.Compare(b.stats.FirstSeen)
	})
	for _, si := range sessions {
		duration := si.stats.LastSeen.Sub(si.stats.FirstSeen).Round(time.Millisecond)
		state := "open"
		if si.stats.Closed {
			state = "closed"
		}
		fmt.Fprintf(w, "  [%s] %d events, duration %s, %s\n", shortenID(si.id), si.stats.Events, duration, state)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
