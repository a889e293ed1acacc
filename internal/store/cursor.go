package store

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/rpmq/internal/header"
	"github.com/calvinalkan/rpmq/internal/tagid"
)

// Cursor is a forward-only scan over database records, scoped to one tag
// and optionally to an exact key match on that tag.
//
// The cursor is a one-shot sequence: once [Cursor.Next] has returned false,
// every further call returns false. The header returned by [Cursor.Header]
// is a rolling view; it is replaced by the next call to Next and must not be
// retained across it. [Cursor.Close] must be called exactly once per cursor
// lifecycle; it is idempotent and never fails on teardown.
//
// Not safe for concurrent use.
type Cursor struct {
	tag   tagid.Tag
	key   string
	exact bool

	db  *database
	pos int

	cur    *header.Header
	err    error
	done   bool
	closed bool
}

// NewCursor opens a cursor over the configured database.
//
// With exact set, only records whose tag value equals key are yielded;
// otherwise every record is yielded. The tag scoping with exact unset is an
// implementation artifact of the record scan: no record is skipped for
// lacking the tag.
//
// Panics if an exact key contains a NUL byte. The on-disk format cannot
// represent such a value, so this is caller misuse rather than an
// environmental condition.
//
// Possible errors: [ErrNotConfigured].
func NewCursor(tag tagid.Tag, key string, exact bool) (*Cursor, error) {
	if exact && strings.IndexByte(key, 0) >= 0 {
		panic(fmt.Sprintf("store: search key %q contains NUL byte", key))
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.configured {
		return nil, ErrNotConfigured
	}

	global.cursors++

	return &Cursor{
		tag:   tag,
		key:   key,
		exact: exact,
		db:    global.db,
	}, nil
}

// Next advances the cursor to the next matching record.
//
// Returns true if a record is available via [Cursor.Header]. Returns false
// on exhaustion, after [Cursor.Close], or when a record failed to decode;
// the latter is distinguished by [Cursor.Err]. Exhaustion is terminal:
// every subsequent call also returns false.
func (c *Cursor) Next() bool {
	if c.done || c.closed {
		return false
	}

	// Advancing invalidates the previous record.
	c.cur = nil

	// db is nil for an empty database; db.data is nil if the store was
	// force-reset underneath us. Both exhaust rather than fault.
	for c.db != nil && c.db.data != nil && c.pos < len(c.db.records) {
		i := c.pos
		c.pos++

		h, err := header.Parse(c.db.blob(i))
		if err != nil {
			c.err = fmt.Errorf("record %d: %w", i, err)
			c.done = true

			return false
		}

		if c.matches(h) {
			c.cur = h

			return true
		}
	}

	c.done = true

	return false
}

// matches reports whether the record satisfies the cursor's key filter.
func (c *Cursor) matches(h *header.Header) bool {
	if !c.exact {
		return true
	}

	v, ok := h.String(c.tag)

	return ok && v == c.key
}

// Header returns the record the last successful [Cursor.Next] stopped on.
//
// Returns nil before the first advance, after exhaustion, and after Close.
func (c *Cursor) Header() *header.Header {
	return c.cur
}

// Err returns the first decode error encountered, if any.
//
// Exhaustion is not an error.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the cursor.
//
// Idempotent; only the first call releases the store's cursor slot.
// Abandoning a partially consumed cursor and closing it is a normal usage
// pattern. Close never reports teardown failures.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true
	c.done = true
	c.cur = nil
	c.db = nil

	global.mu.Lock()
	if global.cursors > 0 {
		global.cursors--
	}
	global.mu.Unlock()

	return nil
}
