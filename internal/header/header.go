// Package header implements the binary header-blob codec for package
// records.
//
// A blob is the classic big-endian header layout: an entry count (il) and
// data-store length (dl), followed by il 16-byte index entries (tag, type,
// offset, count) and dl bytes of data store. Parsing validates every entry
// against the data-store bounds before any value is read, so a [Header]
// obtained from [Parse] never faults on access.
//
// The codec is symmetric: [Builder] produces blobs that [Parse] accepts,
// which is how the store writer, the seed tool and the test fixtures create
// databases.
package header

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/calvinalkan/rpmq/internal/tagid"
)

// Value types used in index entries.
const (
	TypeNull uint32 = iota
	TypeChar
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeString
	TypeBin
	TypeStringArray
	TypeI18NString
)

// Blob layout constants.
const (
	preambleSize = 8  // il (4) + dl (4)
	entrySize    = 16 // tag (4) + type (4) + offset (4) + count (4)

	// maxEntries and maxDataSize bound what Parse will accept. Real package
	// headers are far below both; anything above is a damaged record.
	maxEntries  = 65536
	maxDataSize = 256 << 20
)

// ErrMalformed indicates a header blob that does not decode.
//
// A malformed record surfaces through the match iterator's Err method; it is
// not an exhaustion signal.
var ErrMalformed = errors.New("header: malformed")

// entry is one parsed index entry.
type entry struct {
	typ    uint32
	offset uint32
	count  uint32
}

// Header is a read-only view of one decoded record blob.
//
// Getters return owned copies; nothing aliases the blob the Header was
// parsed from, so callers may retain results after the underlying buffer is
// reused or unmapped.
type Header struct {
	entries map[tagid.Tag]entry
	data    []byte
}

// Parse decodes a header blob.
//
// Possible errors: [ErrMalformed] (short blob, entry out of bounds,
// unterminated string, unknown type for a requested structure).
func Parse(blob []byte) (*Header, error) {
	if len(blob) < preambleSize {
		return nil, fmt.Errorf("blob %d bytes, need at least %d: %w", len(blob), preambleSize, ErrMalformed)
	}

	il := binary.BigEndian.Uint32(blob[0:4])
	dl := binary.BigEndian.Uint32(blob[4:8])

	if il > maxEntries {
		return nil, fmt.Errorf("entry count %d exceeds max %d: %w", il, maxEntries, ErrMalformed)
	}

	if dl > maxDataSize {
		return nil, fmt.Errorf("data length %d exceeds max %d: %w", dl, maxDataSize, ErrMalformed)
	}

	indexSize := int(il) * entrySize

	expected := preambleSize + indexSize + int(dl)
	if len(blob) != expected {
		return nil, fmt.Errorf("blob %d bytes, layout requires %d: %w", len(blob), expected, ErrMalformed)
	}

	data := blob[preambleSize+indexSize:]
	entries := make(map[tagid.Tag]entry, il)

	for i := 0; i < int(il); i++ {
		off := preambleSize + i*entrySize

		tag := binary.BigEndian.Uint32(blob[off : off+4])
		typ := binary.BigEndian.Uint32(blob[off+4 : off+8])
		dataOff := binary.BigEndian.Uint32(blob[off+8 : off+12])
		count := binary.BigEndian.Uint32(blob[off+12 : off+16])

		if typ > TypeI18NString {
			return nil, fmt.Errorf("tag %d has unknown type %d: %w", tag, typ, ErrMalformed)
		}

		if err := checkBounds(typ, dataOff, count, data); err != nil {
			return nil, fmt.Errorf("tag %d: %w", tag, err)
		}

		entries[tagid.Tag(tag)] = entry{typ: typ, offset: dataOff, count: count}
	}

	return &Header{entries: entries, data: data}, nil
}

// checkBounds verifies that an entry's values lie entirely inside the data
// store. String-typed entries are additionally checked for NUL termination.
func checkBounds(typ, offset, count uint32, data []byte) error {
	size := len(data)

	if int(offset) > size {
		return fmt.Errorf("offset %d beyond data store %d: %w", offset, size, ErrMalformed)
	}

	switch typ {
	case TypeNull:
		return nil

	case TypeChar, TypeInt8, TypeBin:
		if int(offset)+int(count) > size {
			return fmt.Errorf("entry end %d beyond data store %d: %w", int(offset)+int(count), size, ErrMalformed)
		}

	case TypeInt16, TypeInt32, TypeInt64:
		width := 2
		if typ == TypeInt32 {
			width = 4
		} else if typ == TypeInt64 {
			width = 8
		}

		if int(offset)+int(count)*width > size {
			return fmt.Errorf("entry end %d beyond data store %d: %w", int(offset)+int(count)*width, size, ErrMalformed)
		}

	case TypeString, TypeStringArray, TypeI18NString:
		// count NUL-terminated strings starting at offset.
		pos := int(offset)
		for i := 0; i < int(count); i++ {
			end := indexByte(data, pos, 0)
			if end < 0 {
				return fmt.Errorf("unterminated string at offset %d: %w", pos, ErrMalformed)
			}

			pos = end + 1
		}
	}

	return nil
}

// indexByte finds c in data at or after pos, returning -1 if absent.
func indexByte(data []byte, pos int, c byte) int {
	i := bytes.IndexByte(data[pos:], c)
	if i < 0 {
		return -1
	}

	return pos + i
}

// Has reports whether the header carries the given tag.
func (h *Header) Has(tag tagid.Tag) bool {
	_, ok := h.entries[tag]

	return ok
}

// String returns the tag's string value.
//
// For I18NSTRING entries the first (canonical-locale) value is returned,
// matching how exact-match cursors compare keys. Returns ("", false) if the
// tag is absent or not string-typed.
func (h *Header) String(tag tagid.Tag) (string, bool) {
	e, ok := h.entries[tag]
	if !ok {
		return "", false
	}

	switch e.typ {
	case TypeString, TypeStringArray, TypeI18NString:
		if e.count == 0 {
			return "", false
		}

		end := indexByte(h.data, int(e.offset), 0)

		return string(h.data[e.offset:end]), true
	default:
		return "", false
	}
}

// StringArray returns all values of a string-typed tag as owned copies.
func (h *Header) StringArray(tag tagid.Tag) ([]string, bool) {
	e, ok := h.entries[tag]
	if !ok {
		return nil, false
	}

	switch e.typ {
	case TypeString, TypeStringArray, TypeI18NString:
		out := make([]string, 0, e.count)
		pos := int(e.offset)

		for i := 0; i < int(e.count); i++ {
			end := indexByte(h.data, pos, 0)
			out = append(out, string(h.data[pos:end]))
			pos = end + 1
		}

		return out, true
	default:
		return nil, false
	}
}

// Int64 returns the first value of an integer-typed tag, widened to int64.
//
// Returns (0, false) if the tag is absent, not integer-typed, or empty.
func (h *Header) Int64(tag tagid.Tag) (int64, bool) {
	e, ok := h.entries[tag]
	if !ok || e.count == 0 {
		return 0, false
	}

	switch e.typ {
	case TypeInt8, TypeChar:
		return int64(h.data[e.offset]), true
	case TypeInt16:
		return int64(binary.BigEndian.Uint16(h.data[e.offset:])), true
	case TypeInt32:
		return int64(int32(binary.BigEndian.Uint32(h.data[e.offset:]))), true
	case TypeInt64:
		return int64(binary.BigEndian.Uint64(h.data[e.offset:])), true
	default:
		return 0, false
	}
}

// Bin returns an owned copy of a BIN-typed tag's bytes.
func (h *Header) Bin(tag tagid.Tag) ([]byte, bool) {
	e, ok := h.entries[tag]
	if !ok || e.typ != TypeBin {
		return nil, false
	}

	out := make([]byte, e.count)
	copy(out, h.data[e.offset:int(e.offset)+int(e.count)])

	return out, true
}

// Tags returns the set of tags present in the header, in no defined order.
func (h *Header) Tags() []tagid.Tag {
	out := make([]tagid.Tag, 0, len(h.entries))
	for t := range h.entries {
		out = append(out, t)
	}

	return out
}
