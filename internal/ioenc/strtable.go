package ioenc

import (
	"fmt"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// groupSize is the random-access stride: every groupSize-th string is
// stored with a forced zero shared-prefix, so a reader can seek to
// the nearest group boundary and then scan forward, mirroring the
// teacher's PathWriter (index/path.go) name-grouping scheme.
const groupSize = 16

// StringTable is a prefix-compressed list of strings with random
// access by index, generalized from the teacher's PathWriter
// (prefix-compressed sorted paths) to any string payload: document
// names, vocabulary surface strings, label names. The list keeps the
// order it was built in; it need not be sorted, and prefix
// compression saves space only where neighbouring strings share a
// prefix.
type StringTable struct {
	strings []string
	// groupOffset[i] is the byte offset, within Encode's output, of
	// the i'th group-boundary string (i.e. index i*groupSize).
	groupOffset []int
}

// BuildStringTable packs a slice of strings into a StringTable,
// keeping their order; index i of the table is strings[i].
func BuildStringTable(strings []string) *StringTable {
	cp := make([]string, len(strings))
	copy(cp, strings)
	return &StringTable{strings: cp}
}

// Len returns the number of strings in the table.
func (t *StringTable) Len() int { return len(t.strings) }

// At returns the i'th string.
func (t *StringTable) At(i int) (string, error) {
	if i < 0 || i >= len(t.strings) {
		return "", fmt.Errorf("%w: string index %d, length %d", metaerr.ErrOutOfRange, i, len(t.strings))
	}
	return t.strings[i], nil
}

// Encode serializes the table as varint(count) followed by one
// prefix-compressed record per string: varint(shared-prefix length),
// varint(suffix length), suffix bytes. Every groupSize-th string
// forces a zero shared-prefix length so a reader holding the group
// boundary offsets (returned as the second value) can start decoding
// at any group without replaying the whole table.
func (t *StringTable) Encode() ([]byte, []int) {
	buf := PutUvarint(nil, uint64(len(t.strings)))
	groupOffsets := make([]int, 0, (len(t.strings)+groupSize-1)/groupSize)

	var prev string
	for i, s := range t.strings {
		pre := 0
		if i%groupSize == 0 {
			groupOffsets = append(groupOffsets, len(buf))
		} else {
			for pre < len(prev) && pre < len(s) && prev[pre] == s[pre] {
				pre++
			}
		}
		buf = PutUvarint(buf, uint64(pre))
		buf = PutString(buf, s[pre:])
		prev = s
	}
	return buf, groupOffsets
}

// DecodeStringTable parses a buffer produced by Encode (data) with
// its companion group-offset slice (as persisted separately, e.g. via
// a disk-vector of u64 offsets) and reconstructs the full string list.
// groupOffsets may be nil; it is only needed for future random-access
// seeking, which this in-memory decoder does not yet exploit.
func DecodeStringTable(data []byte, groupOffsets []int) (*StringTable, error) {
	count, n := Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated string table header", metaerr.ErrCorruption)
	}
	off := n
	strs := make([]string, 0, count)
	var prev string
	for i := uint64(0); i < count; i++ {
		pre, n := Uvarint(data[off:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: truncated string table entry %d", metaerr.ErrCorruption, i)
		}
		off += n
		suffix, n, ok := String(data[off:])
		if !ok {
			return nil, fmt.Errorf("%w: truncated string table entry %d", metaerr.ErrCorruption, i)
		}
		off += n
		if int(pre) > len(prev) {
			return nil, fmt.Errorf("%w: string table entry %d has prefix longer than previous string", metaerr.ErrCorruption, i)
		}
		s := prev[:pre] + suffix
		strs = append(strs, s)
		prev = s
	}
	return &StringTable{strings: strs, groupOffset: groupOffsets}, nil
}
