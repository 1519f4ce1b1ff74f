// Package log captures structured sync events.
//
// It is separate from operational logging (slog): the event stream is a
// machine-readable trace of every decode, sync and lifecycle change a
// session performed, suitable for replay and debugging.
//
// # Basic Usage
//
//	// Development: events on the console.
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Production: binary file.
//	fl, _ := log.NewFileLogger("/var/log/ppsync/session.slog")
//
//	// Both.
//	logger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # File Format
//
// Log files are a stream of CBOR-encoded Events with integer keys. Read
// them back with Reader, or with "ppsync log view".
package log
