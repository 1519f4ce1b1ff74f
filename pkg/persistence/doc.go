// Package persistence provides a file-backed session.Persister.
//
// SnapshotStore keeps the latest encoded form of every record a session
// created or changed and writes them to a versioned JSON snapshot on Save.
// It is an export and debugging aid; a session never reads a snapshot back.
package persistence
