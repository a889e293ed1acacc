// Package store owns the process-wide database state and the match cursors
// that scan it.
//
// The store deliberately models what the public surface documents: one
// configured database path per process. [Configure] is the "native
// initialization" step; once it succeeds, cursors opened via [NewCursor]
// borrow the shared read-only mapping. Reconfiguring with a different path
// while the store is open is rejected, not silently handled.
//
// # Concurrency
//
// Configure, Close and cursor open/close are serialized internally. A
// [Cursor] itself is NOT safe for concurrent use; each cursor must be driven
// from one goroutine at a time.
package store

import (
	"fmt"
	"os"
	"sync"
)

// global is the process-wide store state. There is exactly one database per
// process, mirroring the native library semantics the public surface wraps.
var global struct {
	mu         sync.Mutex
	configured bool
	dbpath     string
	db         *database // nil when the Packages file does not exist (empty database)
	cursors    int       // live cursor count

	opens int // total successful Configure calls, test instrumentation
}

// Configure initializes the store against the given database path.
//
// A missing Packages file is not an error: the store opens as an empty
// database and every cursor is immediately exhausted. A present but
// unreadable or damaged file fails here, before any cursor exists.
//
// Calling Configure again with the same path is a no-op. Calling it with a
// different path returns [ErrAlreadyConfigured].
//
// Possible errors: [ErrAlreadyConfigured], [ErrCorrupt], [ErrIncompatible],
// I/O errors from open/stat/mmap.
func Configure(dbpath string) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.configured {
		if global.dbpath == dbpath {
			return nil
		}

		return fmt.Errorf("%w: open with %q, requested %q", ErrAlreadyConfigured, global.dbpath, dbpath)
	}

	var db *database

	_, statErr := os.Stat(dbpath)
	if statErr == nil {
		opened, err := openDatabase(dbpath)
		if err != nil {
			return err
		}

		db = opened
	} else if !os.IsNotExist(statErr) {
		return fmt.Errorf("stat database %s: %w", dbpath, statErr)
	}

	global.configured = true
	global.dbpath = dbpath
	global.db = db
	global.opens++

	return nil
}

// Close releases the database mapping and returns the store to the
// unconfigured state.
//
// Fails with [ErrBusy] while cursors are live. Closing an unconfigured
// store is a no-op.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.configured {
		return nil
	}

	if global.cursors > 0 {
		return fmt.Errorf("%w: %d live cursors", ErrBusy, global.cursors)
	}

	if global.db != nil {
		global.db.close()
	}

	global.configured = false
	global.dbpath = ""
	global.db = nil

	return nil
}

// Path returns the configured database path.
func Path() (string, bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	return global.dbpath, global.configured
}

// LiveCursors returns the number of cursors opened but not yet closed.
//
// Test instrumentation for exactly-once release checks.
func LiveCursors() int {
	global.mu.Lock()
	defer global.mu.Unlock()

	return global.cursors
}

// Opens returns the number of successful Configure calls in this process.
//
// Test instrumentation: lets tests assert that precondition failures never
// reach native initialization.
func Opens() int {
	global.mu.Lock()
	defer global.mu.Unlock()

	return global.opens
}

// Reset force-closes the store regardless of live cursors.
//
// Only for tests, which need to move the process-wide singleton between
// database fixtures. Live cursors keep their snapshot and simply exhaust.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.db != nil {
		global.db.close()
	}

	global.configured = false
	global.dbpath = ""
	global.db = nil
	global.cursors = 0
}
