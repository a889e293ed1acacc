package rpmq

import (
	"fmt"

	"github.com/calvinalkan/rpmq/internal/store"
)

// Iter is a lazy, finite, forward-only iterator over package descriptors.
//
// An Iter is not restartable: once exhausted it stays exhausted, and a new
// query must be made to search again. Partial consumption is a normal usage
// pattern; [Iter.Close] releases the underlying cursor exactly once no
// matter how much of the sequence was consumed.
//
// Not safe for concurrent use.
type Iter struct {
	cursor *store.Cursor
	pkg    Package
	err    error
	closed bool
}

// Next advances to the next matching package.
//
// Returns true if a package is available via [Iter.Package]. Returns false
// on exhaustion, which is terminal and idempotent: every later call also
// returns false. A false return with a non-nil [Iter.Err] means the scan
// stopped on a damaged record ([ErrCorrupt]) rather than running out of
// them. Advancing after [Iter.Close] returns false and sets [ErrClosed].
func (it *Iter) Next() bool {
	if it.closed {
		if it.err == nil {
			it.err = ErrClosed
		}

		return false
	}

	if it.err != nil {
		return false
	}

	if !it.cursor.Next() {
		if err := it.cursor.Err(); err != nil {
			it.err = fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		return false
	}

	// Project before returning: the cursor's record is a rolling buffer,
	// the Package is an owned snapshot.
	it.pkg = packageFromHeader(it.cursor.Header())

	return true
}

// Package returns the descriptor the last successful [Iter.Next] produced.
//
// The value is fully owned by the caller and stays valid across further
// advances and after Close.
func (it *Iter) Package() Package {
	return it.pkg
}

// Err returns the first error the iterator encountered: [ErrNotOpen] when
// the database was never opened, [ErrCorrupt] when a record failed to decode
// mid-scan, [ErrClosed] when the iterator was advanced after Close.
//
// Exhaustion is not an error.
func (it *Iter) Err() error {
	return it.err
}

// Close releases the iterator's cursor.
//
// Idempotent. Abandoning the rest of the sequence and calling Close is
// supported and leaks nothing; teardown never reports an error to the
// caller.
func (it *Iter) Close() error {
	if it.closed {
		return nil
	}

	it.closed = true
	_ = it.cursor.Close()

	return nil
}

// Collect drains the iterator and closes it.
//
// Convenience for callers that want the whole result set; the lazy
// single-record contract still holds underneath.
func (it *Iter) Collect() ([]Package, error) {
	defer func() { _ = it.Close() }()

	var pkgs []Package
	for it.Next() {
		pkgs = append(pkgs, it.Package())
	}

	return pkgs, it.Err()
}
