package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/peoplepower/ppsync-go/pkg/config"
	"github.com/peoplepower/ppsync-go/pkg/log"
	"github.com/peoplepower/ppsync-go/pkg/models"
	"github.com/peoplepower/ppsync-go/pkg/notify"
	"github.com/peoplepower/ppsync-go/pkg/persistence"
	"github.com/peoplepower/ppsync-go/pkg/session"
)

// SyncOptions configures the sync command.
type SyncOptions struct {
	// Collection receives every payload.
	Collection string

	// Files are applied in order to the same session.
	Files []string

	// Snapshot, when set, is the file the final records are saved to.
	Snapshot string
}

// RunSync applies payload files to one session the way a client would and
// prints every change as it is dispatched.
func RunSync(cfg *config.Config, opts SyncOptions, w io.Writer) (err error) {
	logger, closeLog, err := eventLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	dispatcher := notify.NewDispatcherWithConfig(cfg.Dispatcher())
	sopts := []session.Option{
		session.WithLogger(logger),
		session.WithDispatcher(dispatcher),
	}

	var snapshot *persistence.SnapshotStore
	if opts.Snapshot != "" {
		snapshot = persistence.NewSnapshotStore(opts.Snapshot)
		sopts = append(sopts, session.WithPersister(snapshot))
	}

	if cfg.NATS.URL != "" {
		var pub *notify.NATSPublisher
		pub, err = notify.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			return err
		}
		defer flushClose(pub, &err)
		if _, err = dispatcher.Subscribe(notify.Filter{Collection: opts.Collection}, pub); err != nil {
			return err
		}
	}

	_, err = dispatcher.Subscribe(notify.Filter{Collection: opts.Collection}, notify.ObserverFunc(func(c notify.Change) {
		fmt.Fprintf(w, "  -> %s\n", c)
	}))
	if err != nil {
		return err
	}

	s := session.New(sopts...)
	models.Register(s)
	a, err := s.Collection(opts.Collection)
	if err != nil {
		return err
	}

	for _, path := range opts.Files {
		fmt.Fprintf(w, "%s:\n", path)
		if err := applyFile(a, path, w); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%s: %d records\n", opts.Collection, a.Len())

	id := s.ID()
	s.Close()
	if snapshot != nil {
		if err := snapshot.Save(id); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		slog.Info("snapshot saved", "path", opts.Snapshot, "session", id)
	}
	return nil
}

// eventLogger builds the sync event logger from cfg. The returned func
// closes the log file, if any.
func eventLogger(cfg *config.Config) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if cfg.Log.File != "" {
		fl, err := log.NewFileLogger(cfg.Log.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open event log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			if err := fl.Close(); err != nil {
				slog.Warn("failed to close event log", "error", err)
			}
		}
	}
	if cfg.Log.Console {
		loggers = append(loggers, log.NewSlogAdapter(slog.Default()))
	}

	if len(loggers) == 0 {
		return log.NoopLogger{}, closeFn, nil
	}
	return log.NewMultiLogger(loggers...), closeFn, nil
}

type flushCloser interface {
	Flush() error
	Close() error
}

// flushClose flushes and closes p, joining any failure into *err.
func flushClose(p flushCloser, err *error) {
	*err = errors.Join(*err, p.Flush(), p.Close())
}
