package rpmq

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/rpmq/internal/store"
	"github.com/calvinalkan/rpmq/internal/tagid"
)

// Index is a searchable field in the package headers.
type Index int

// Searchable fields.
const (
	// Name searches by package name.
	Name Index = iota

	// Version searches by package version.
	Version

	// License searches by package license.
	License

	// Summary searches by package summary.
	Summary

	// Description searches by package description.
	Description
)

// tag maps the index to its native tag identifier.
//
// Total over the enumeration: every Index has exactly one tag, and no two
// indexes share one. The switch is deliberately closed - a new Index
// variant without a case here panics immediately rather than matching a
// fallback.
func (i Index) tag() tagid.Tag {
	switch i {
	case Name:
		return tagid.Name
	case Version:
		return tagid.Version
	case License:
		return tagid.License
	case Summary:
		return tagid.Summary
	case Description:
		return tagid.Description
	default:
		panic("rpmq: unknown index")
	}
}

// String returns the index's field name.
func (i Index) String() string {
	return i.tag().String()
}

// Find returns an iterator over packages whose field exactly equals key.
//
// The database must be open (see [Open]); otherwise the iterator is empty
// and its Err method reports why.
//
// Panics if key contains a NUL byte - a key that the underlying matcher can
// never accept indicates a caller bug, not an environmental condition.
func (i Index) Find(key string) *Iter {
	return newIter(i.tag(), key, true)
}

// Find returns an iterator over packages whose index field exactly equals
// key. It is a free-function alias for [Index.Find].
//
// Panics if key contains a NUL byte.
func Find(index Index, key string) *Iter {
	return index.Find(key)
}

// InstalledPackages returns an iterator over every package in the database.
//
// Internally the scan is scoped to the Name tag because a cursor always
// binds to some tag; with no key filter this does not exclude any record,
// Name-less or otherwise.
func InstalledPackages() *Iter {
	return newIter(tagid.Name, "", false)
}

// newIter opens a cursor and wraps it. Cursor-open failures (database not
// open) are carried inside the iterator so the query surface stays a single
// call; the iterator yields nothing and reports the cause via [Iter.Err].
func newIter(tag tagid.Tag, key string, exact bool) *Iter {
	cursor, err := store.NewCursor(tag, key, exact)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			err = fmt.Errorf("%w: %w", ErrNotOpen, err)
		}

		return &Iter{err: err, closed: true}
	}

	return &Iter{cursor: cursor}
}
