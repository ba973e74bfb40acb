// Package postings implements the packed postings codec and
// forward-only stream reader of spec §4.F: a per-term header of
// (document-frequency, corpus-term-count) followed by a run of
// gap-coded (doc_id_gap, count) pairs, grounded on the teacher's
// delta-coded posting lists (index/read.go's postReader /
// index/write.go's postDataWriter) but re-targeted from gamma-coded
// trigram/fileid deltas to varint-coded (doc_id, count) pairs.
package postings

import (
	"fmt"

	"github.com/hakonhall/metaindex/internal/ids"
	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
)

// Entry is one (doc_id, count) pair in a term's postings list, doc
// ids strictly increasing.
type Entry struct {
	Doc   ids.DocID
	Count uint64
}

// Encode packs entries (already sorted ascending by Doc) into the
// on-disk postings block: varint(doc_freq) varint(corpus_count) then
// varint(gap) varint(count) per entry, gap being the distance from
// the previous doc id (or from -1 for the first entry, so gaps are
// always >= 1).
func Encode(entries []Entry) ([]byte, error) {
	var corpusCount uint64
	for _, e := range entries {
		corpusCount += e.Count
	}

	buf := ioenc.PutUvarint(nil, uint64(len(entries)))
	buf = ioenc.PutUvarint(buf, corpusCount)

	prev := int64(-1)
	for _, e := range entries {
		doc := int64(e.Doc)
		if doc <= prev {
			return nil, fmt.Errorf("%w: postings doc ids must be strictly increasing (got %d after %d)", metaerr.ErrCorruption, doc, prev)
		}
		gap := uint64(doc - prev)
		buf = ioenc.PutUvarint(buf, gap)
		buf = ioenc.PutUvarint(buf, e.Count)
		prev = doc
	}
	return buf, nil
}

// Cursor is an opaque, restorable position within a Stream.
type Cursor struct {
	pos     int
	prevDoc int64
	index   int
}

// Stream is a forward-only iterator over one term's postings block,
// producing (doc_id, count) pairs with O(1) per-step advance and
// O(1) cursor save/restore. Not safe for concurrent use by multiple
// goroutines; per spec §5 each thread owns its own cursor.
type Stream struct {
	data        []byte
	pos         int
	docFreq     uint64
	corpusCount uint64
	prevDoc     int64
	index       int
}

// NewStream parses the header of a postings block and returns a
// Stream positioned at the first entry.
func NewStream(data []byte) (*Stream, error) {
	docFreq, n := ioenc.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated postings header", metaerr.ErrCorruption)
	}
	off := n
	corpusCount, n := ioenc.Uvarint(data[off:])
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated postings header", metaerr.ErrCorruption)
	}
	off += n
	return &Stream{
		data:        data,
		pos:         off,
		docFreq:     docFreq,
		corpusCount: corpusCount,
		prevDoc:     -1,
	}, nil
}

// DocFreq returns the term's document frequency (list length).
func (s *Stream) DocFreq() uint64 { return s.docFreq }

// CorpusCount returns the term's total occurrence count across the corpus.
func (s *Stream) CorpusCount() uint64 { return s.corpusCount }

// Len returns the total number of (doc, count) entries in the stream.
func (s *Stream) Len() int { return int(s.docFreq) }

// Next advances the stream and returns the next (doc_id, count) pair.
// ok is false once the stream is exhausted, and every later call
// returns ok=false again (matching spec §8's "reports end-of-stream on
// the next advance and does not undefined-behave").
func (s *Stream) Next() (doc ids.DocID, count uint64, ok bool, err error) {
	if s.index >= int(s.docFreq) {
		return 0, 0, false, nil
	}
	gap, n := ioenc.Uvarint(s.data[s.pos:])
	if n <= 0 {
		return 0, 0, false, fmt.Errorf("%w: truncated postings gap at entry %d", metaerr.ErrCorruption, s.index)
	}
	s.pos += n
	c, n := ioenc.Uvarint(s.data[s.pos:])
	if n <= 0 {
		return 0, 0, false, fmt.Errorf("%w: truncated postings count at entry %d", metaerr.ErrCorruption, s.index)
	}
	s.pos += n

	s.prevDoc += int64(gap)
	s.index++
	return ids.DocID(s.prevDoc), c, true, nil
}

// Cursor captures the stream's current position for O(1) save.
func (s *Stream) Cursor() Cursor {
	return Cursor{pos: s.pos, prevDoc: s.prevDoc, index: s.index}
}

// Restore rewinds or fast-forwards the stream to a previously
// captured Cursor.
func (s *Stream) Restore(c Cursor) {
	s.pos = c.pos
	s.prevDoc = c.prevDoc
	s.index = c.index
}
