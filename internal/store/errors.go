package store

import "errors"

// Sentinel errors returned by store operations.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrNotConfigured indicates no database path has been configured yet.
	ErrNotConfigured = errors.New("store: not configured")

	// ErrAlreadyConfigured indicates Configure was called again with a
	// different database path while the store is open.
	//
	// The store holds process-wide state; reconfiguring it underneath live
	// callers is unsupported. Close the store first.
	ErrAlreadyConfigured = errors.New("store: already configured")

	// ErrBusy indicates the store cannot be closed because cursors are
	// still live.
	//
	// Recovery: close every cursor, then retry.
	ErrBusy = errors.New("store: busy")

	// ErrCorrupt indicates the database file is damaged.
	//
	// Recovery: rebuild the database from your source of truth.
	ErrCorrupt = errors.New("store: corrupt")

	// ErrIncompatible indicates the database file uses an unknown format
	// version or flags.
	//
	// Recovery: rebuild the database with this version of the tooling.
	ErrIncompatible = errors.New("store: incompatible")
)
