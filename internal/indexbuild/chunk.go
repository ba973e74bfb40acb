package indexbuild

import (
	"fmt"
	"os"
	"sort"

	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
)

// rawEntry is one in-memory (key, sub_key, count) triple awaiting
// chunk-sort and merge, generalized from the teacher's packed
// postEntry (index/write.go) so it can serve both the inverted build
// (key=term_id, sub=doc_id) and the forward build (key=doc_id,
// sub=term_id) without bit-packing assumptions on id ranges.
type rawEntry struct {
	Key   uint64
	Sub   uint64
	Count uint64
}

const rawEntrySize = 24 // approximate in-memory footprint per entry, for RAM-budget accounting

func sortEntries(entries []rawEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Key != entries[j].Key {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].Sub < entries[j].Sub
	})
}

// writeChunk sorts entries by (Key asc, Sub asc) and writes them as a
// flat varint-triple file, returning the file path.
func writeChunk(dir string, chunkID int, entries []rawEntry) (string, error) {
	sortEntries(entries)
	name := fmt.Sprintf("%s/chunk-%06d.tmp", dir, chunkID)
	buf, err := ioenc.NewBuffer(name)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if err := buf.WriteUvarint(e.Key); err != nil {
			return "", err
		}
		if err := buf.WriteUvarint(e.Sub); err != nil {
			return "", err
		}
		if err := buf.WriteUvarint(e.Count); err != nil {
			return "", err
		}
	}
	if err := buf.Flush(); err != nil {
		return "", err
	}
	if err := buf.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", metaerr.ErrIO, name, err)
	}
	return name, nil
}

// chunkReader streams rawEntry triples out of a sorted chunk file in
// order.
type chunkReader struct {
	data []byte
	pos  int
}

func openChunkReader(path string) (*chunkReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read chunk %s: %v", metaerr.ErrIO, path, err)
	}
	return &chunkReader{data: data}, nil
}

func (r *chunkReader) next() (rawEntry, bool) {
	if r.pos >= len(r.data) {
		return rawEntry{}, false
	}
	key, n := ioenc.Uvarint(r.data[r.pos:])
	r.pos += n
	sub, n := ioenc.Uvarint(r.data[r.pos:])
	r.pos += n
	count, n := ioenc.Uvarint(r.data[r.pos:])
	r.pos += n
	return rawEntry{Key: key, Sub: sub, Count: count}, true
}

// entryHeap is a k-way merge heap over chunk sources (file-backed or
// in-memory), ordered by (Key, Sub) ascending, modeled on the
// teacher's postHeap (index/write.go).
type entryHeap struct {
	srcs []*entrySource
}

type entrySource struct {
	cur  rawEntry
	next func() (rawEntry, bool)
}

func (h *entryHeap) addMem(entries []rawEntry) {
	i := 0
	h.add(func() (rawEntry, bool) {
		if i >= len(entries) {
			return rawEntry{}, false
		}
		e := entries[i]
		i++
		return e, true
	})
}

func (h *entryHeap) addFile(r *chunkReader) {
	h.add(r.next)
}

func (h *entryHeap) add(next func() (rawEntry, bool)) {
	e, ok := next()
	if !ok {
		return
	}
	h.push(&entrySource{cur: e, next: next})
}

func (h *entryHeap) empty() bool { return len(h.srcs) == 0 }

func less(a, b rawEntry) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Sub < b.Sub
}

// next pops and returns the minimum entry across all active sources.
func (h *entryHeap) next() (rawEntry, bool) {
	if len(h.srcs) == 0 {
		return rawEntry{}, false
	}
	src := h.srcs[0]
	e := src.cur
	if next, ok := src.next(); ok {
		src.cur = next
		h.siftDown(0)
	} else {
		h.pop()
	}
	return e, true
}

func (h *entryHeap) push(s *entrySource) {
	n := len(h.srcs)
	h.srcs = append(h.srcs, s)
	h.siftUp(n)
}

func (h *entryHeap) pop() {
	n := len(h.srcs) - 1
	h.srcs[0] = h.srcs[n]
	h.srcs = h.srcs[:n]
	if n > 0 {
		h.siftDown(0)
	}
}

func (h *entryHeap) siftDown(i int) {
	s := h.srcs
	for {
		j1 := 2*i + 1
		if j1 >= len(s) {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < len(s) && less(s[j2].cur, s[j1].cur) {
			j = j2
		}
		if !less(s[j].cur, s[i].cur) {
			break
		}
		s[i], s[j] = s[j], s[i]
		i = j
	}
}

func (h *entryHeap) siftUp(j int) {
	s := h.srcs
	for {
		i := (j - 1) / 2
		if i == j || !less(s[j].cur, s[i].cur) {
			break
		}
		s[i], s[j] = s[j], s[i]
		j = i
	}
}
