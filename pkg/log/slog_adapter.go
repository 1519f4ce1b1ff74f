package log

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter writes sync events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Error events are logged at warn
// level, everything else at debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("category", event.Category.String()),
	}
	if event.Collection != "" {
		attrs = append(attrs, slog.String("collection", event.Collection))
	}
	if event.RecordID != "" {
		attrs = append(attrs, slog.String("id", event.RecordID))
	}

	level := slog.LevelDebug
	switch {
	case event.Decode != nil:
		attrs = append(attrs,
			slog.Int("keys", event.Decode.Keys),
			slog.Int("issues", len(event.Decode.Issues)),
		)
		if len(event.Decode.Issues) > 0 {
			paths := make([]string, len(event.Decode.Issues))
			for i, issue := range event.Decode.Issues {
				paths[i] = issue.Path
			}
			attrs = append(attrs, slog.String("issue_paths", strings.Join(paths, ",")))
		}
	case event.Sync != nil:
		attrs = append(attrs,
			slog.Bool("created", event.Sync.Created),
			slog.String("changes", strings.Join(event.Sync.Changes, ",")),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "sync", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
