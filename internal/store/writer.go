package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/rpmq/internal/header"
)

// Create writes a database file containing the given record blobs.
//
// Every blob is decoded first so a damaged input fails the whole write
// instead of producing a file that [Configure] would reject. The file is
// written atomically; readers never observe a partial database.
//
// Create is seeding and test infrastructure. It is not a record CRUD API:
// the query surface stays read-only.
func Create(path string, blobs [][]byte) error {
	for i, blob := range blobs {
		_, err := header.Parse(blob)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	recordBytes := 0
	for _, blob := range blobs {
		recordBytes += 4 + len(blob)
	}

	buf := make([]byte, dbHeaderSize, dbHeaderSize+recordBytes)

	copy(buf[offMagic:], dbMagic)
	binary.LittleEndian.PutUint16(buf[offVersion:], dbVersion)
	binary.LittleEndian.PutUint16(buf[offFlags:], 0)
	binary.LittleEndian.PutUint32(buf[offRecordCount:], uint32(len(blobs)))
	binary.LittleEndian.PutUint64(buf[offRecordBytes:], uint64(recordBytes))

	for _, blob := range blobs {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(blob)))
		buf = append(buf, blob...)
	}

	err := atomic.WriteFile(path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("writing database: %w", err)
	}

	return nil
}
