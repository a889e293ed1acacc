package rpmq

import "errors"

// Sentinel errors returned by rpmq operations.
//
// Callers should use [errors.Is] to check error types:
//
//	if errors.Is(err, rpmq.ErrConfig) {
//	    // bad path, unreadable config, failed database initialization
//	}
var (
	// ErrConfig indicates the database could not be opened from its
	// configuration: the config path does not exist, is not representable,
	// or initialization against the configured database path failed.
	//
	// Configuration problems are not transient; there is nothing to retry.
	ErrConfig = errors.New("rpmq: config")

	// ErrAlreadyOpen indicates [Open] was called while the process already
	// holds a database opened with a different configuration.
	//
	// The underlying database state is process-wide. Close the existing
	// handle first.
	ErrAlreadyOpen = errors.New("rpmq: already open")

	// ErrNotOpen indicates a query was made before [Open] succeeded.
	//
	// Surfaced through [Iter.Err] on the resulting empty iterator.
	ErrNotOpen = errors.New("rpmq: not open")

	// ErrBusy indicates [Db.Close] was called while iterators are still
	// live.
	//
	// Recovery: close every iterator, then retry.
	ErrBusy = errors.New("rpmq: busy")

	// ErrClosed indicates [Iter.Next] was called after [Iter.Close].
	//
	// This is a programming error; closing an iterator is terminal.
	ErrClosed = errors.New("rpmq: closed")

	// ErrCorrupt indicates the database file or one of its records is
	// damaged. Open-time damage also matches [ErrConfig]; mid-scan damage
	// surfaces through [Iter.Err].
	//
	// Recovery: rebuild the database from your source of truth.
	ErrCorrupt = errors.New("rpmq: corrupt")

	// ErrIncompatible indicates the database file uses an unknown format
	// version or flags. Also matches [ErrConfig].
	//
	// Recovery: rebuild the database with this version of the tooling.
	ErrIncompatible = errors.New("rpmq: incompatible")
)
