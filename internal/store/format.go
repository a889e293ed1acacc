package store

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Database file format constants.
//
// Layout (little-endian header, like every fixed header in this codebase):
//
//	0x00  magic "RQD1" (4 bytes)
//	0x04  format version (u16)
//	0x06  flags (u16, must be 0)
//	0x08  record count (u32)
//	0x0C  record area length in bytes (u64)
//	0x14  reserved to 0x20 (zeros)
//
// The record area follows immediately: count records, each a u32
// length prefix plus a header blob (big-endian inside, see internal/header).
const (
	dbMagic      = "RQD1"
	dbVersion    = 1
	dbHeaderSize = 32

	offMagic       = 0x00
	offVersion     = 0x04
	offFlags       = 0x06
	offRecordCount = 0x08
	offRecordBytes = 0x0C
)

// recordRef locates one record blob inside the mapped file.
type recordRef struct {
	offset int // start of the blob (after the length prefix)
	length int
}

// database is an open, validated, read-only mapping of a Packages file.
type database struct {
	data    []byte
	records []recordRef
}

// openDatabase maps and validates the database file at path.
//
// The whole record table is bounds-checked up front so that cursors never
// have to re-validate offsets while iterating.
//
// Possible errors: [ErrCorrupt], [ErrIncompatible], I/O errors from
// open/stat/mmap.
func openDatabase(path string) (*database, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	size := info.Size()
	if size < dbHeaderSize {
		return nil, fmt.Errorf("file size %d is less than header size %d: %w", size, dbHeaderSize, ErrCorrupt)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap database: %w", err)
	}

	db, err := validateMapping(data)
	if err != nil {
		_ = unix.Munmap(data)

		return nil, err
	}

	return db, nil
}

// validateMapping checks the file header and walks the record table.
func validateMapping(data []byte) (*database, error) {
	if string(data[offMagic:offMagic+4]) != dbMagic {
		return nil, fmt.Errorf("invalid magic: %w", ErrCorrupt)
	}

	version := binary.LittleEndian.Uint16(data[offVersion:])
	if version != dbVersion {
		return nil, fmt.Errorf("format version %d, want %d: %w", version, dbVersion, ErrIncompatible)
	}

	flags := binary.LittleEndian.Uint16(data[offFlags:])
	if flags != 0 {
		return nil, fmt.Errorf("unknown flags %#x: %w", flags, ErrIncompatible)
	}

	count := int(binary.LittleEndian.Uint32(data[offRecordCount:]))
	recordBytes := binary.LittleEndian.Uint64(data[offRecordBytes:])

	if uint64(len(data)-dbHeaderSize) != recordBytes {
		return nil, fmt.Errorf("record area %d bytes, header claims %d: %w", len(data)-dbHeaderSize, recordBytes, ErrCorrupt)
	}

	// The count is untrusted input; bound it against the record area before
	// sizing anything by it. Every record needs at least its 4-byte length
	// prefix.
	if count > (len(data)-dbHeaderSize)/4 {
		return nil, fmt.Errorf("record count %d exceeds what %d record-area bytes can hold: %w", count, len(data)-dbHeaderSize, ErrCorrupt)
	}

	records := make([]recordRef, 0, count)
	pos := dbHeaderSize

	for i := 0; i < count; i++ {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("record %d: truncated length prefix: %w", i, ErrCorrupt)
		}

		length := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4

		if length > len(data)-pos {
			return nil, fmt.Errorf("record %d: length %d exceeds remaining %d bytes: %w", i, length, len(data)-pos, ErrCorrupt)
		}

		records = append(records, recordRef{offset: pos, length: length})
		pos += length
	}

	if pos != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after last record: %w", len(data)-pos, ErrCorrupt)
	}

	return &database{data: data, records: records}, nil
}

// close releases the mapping. Safe to call once; teardown errors are
// swallowed, there is nothing a caller could do with them.
func (db *database) close() {
	if db.data != nil {
		_ = unix.Munmap(db.data)
		db.data = nil
	}

	db.records = nil
}

// blob returns the raw bytes of record i. The slice aliases the mapping and
// is only valid until the database is closed.
func (db *database) blob(i int) []byte {
	ref := db.records[i]

	return db.data[ref.offset : ref.offset+ref.length]
}
