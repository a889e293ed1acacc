package header

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/calvinalkan/rpmq/internal/tagid"
)

// Builder assembles a header blob tag by tag.
//
// Values are encoded on Build in ascending tag order so that identical
// inputs always produce byte-identical blobs. The zero value is ready to
// use. Builder is not safe for concurrent use.
type Builder struct {
	values map[tagid.Tag]builderValue
}

type builderValue struct {
	typ  uint32
	strs []string
	ints []int64
	bin  []byte
}

// SetString sets a STRING-typed tag.
func (b *Builder) SetString(tag tagid.Tag, value string) *Builder {
	b.set(tag, builderValue{typ: TypeString, strs: []string{value}})

	return b
}

// SetI18NString sets an I18NSTRING-typed tag with a single canonical value.
func (b *Builder) SetI18NString(tag tagid.Tag, value string) *Builder {
	b.set(tag, builderValue{typ: TypeI18NString, strs: []string{value}})

	return b
}

// SetStringArray sets a STRING_ARRAY-typed tag.
func (b *Builder) SetStringArray(tag tagid.Tag, values ...string) *Builder {
	b.set(tag, builderValue{typ: TypeStringArray, strs: values})

	return b
}

// SetInt32 sets an INT32-typed tag.
func (b *Builder) SetInt32(tag tagid.Tag, values ...int32) *Builder {
	ints := make([]int64, len(values))
	for i, v := range values {
		ints[i] = int64(v)
	}

	b.set(tag, builderValue{typ: TypeInt32, ints: ints})

	return b
}

// SetInt64 sets an INT64-typed tag.
func (b *Builder) SetInt64(tag tagid.Tag, values ...int64) *Builder {
	ints := make([]int64, len(values))
	copy(ints, values)

	b.set(tag, builderValue{typ: TypeInt64, ints: ints})

	return b
}

// SetBin sets a BIN-typed tag.
func (b *Builder) SetBin(tag tagid.Tag, value []byte) *Builder {
	bin := make([]byte, len(value))
	copy(bin, value)

	b.set(tag, builderValue{typ: TypeBin, bin: bin})

	return b
}

func (b *Builder) set(tag tagid.Tag, v builderValue) {
	if b.values == nil {
		b.values = make(map[tagid.Tag]builderValue)
	}

	b.values[tag] = v
}

// Build encodes the accumulated tags into a header blob.
//
// Returns an error if any string value contains a NUL byte, since the data
// store uses NUL termination.
func (b *Builder) Build() ([]byte, error) {
	tags := make([]tagid.Tag, 0, len(b.values))
	for t := range b.values {
		tags = append(tags, t)
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	var data []byte

	type rawEntry struct {
		tag    tagid.Tag
		typ    uint32
		offset uint32
		count  uint32
	}

	entries := make([]rawEntry, 0, len(tags))

	for _, t := range tags {
		v := b.values[t]

		// Integer values are aligned to their width, matching the classic
		// header layout readers expect.
		switch v.typ {
		case TypeInt16:
			data = pad(data, 2)
		case TypeInt32:
			data = pad(data, 4)
		case TypeInt64:
			data = pad(data, 8)
		}

		e := rawEntry{tag: t, typ: v.typ, offset: uint32(len(data))}

		switch v.typ {
		case TypeString, TypeStringArray, TypeI18NString:
			e.count = uint32(len(v.strs))

			for _, s := range v.strs {
				if containsNUL(s) {
					return nil, fmt.Errorf("tag %s: string value contains NUL byte", t)
				}

				data = append(data, s...)
				data = append(data, 0)
			}

		case TypeInt32:
			e.count = uint32(len(v.ints))

			for _, n := range v.ints {
				data = binary.BigEndian.AppendUint32(data, uint32(int32(n)))
			}

		case TypeInt64:
			e.count = uint32(len(v.ints))

			for _, n := range v.ints {
				data = binary.BigEndian.AppendUint64(data, uint64(n))
			}

		case TypeBin:
			e.count = uint32(len(v.bin))
			data = append(data, v.bin...)
		}

		entries = append(entries, e)
	}

	blob := make([]byte, 0, preambleSize+len(entries)*entrySize+len(data))
	blob = binary.BigEndian.AppendUint32(blob, uint32(len(entries)))
	blob = binary.BigEndian.AppendUint32(blob, uint32(len(data)))

	for _, e := range entries {
		blob = binary.BigEndian.AppendUint32(blob, uint32(e.tag))
		blob = binary.BigEndian.AppendUint32(blob, e.typ)
		blob = binary.BigEndian.AppendUint32(blob, e.offset)
		blob = binary.BigEndian.AppendUint32(blob, e.count)
	}

	blob = append(blob, data...)

	return blob, nil
}

// pad extends data with zero bytes to the given alignment.
func pad(data []byte, align int) []byte {
	for len(data)%align != 0 {
		data = append(data, 0)
	}

	return data
}

func containsNUL(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}
