package indexbuild

import (
	"github.com/hakonhall/metaindex/internal/ids"
	"github.com/hakonhall/metaindex/internal/postings"
)

// mergeResult is the merged output of one inverted or forward build:
// the concatenated postings blocks and the per-key offset table,
// indexed by the numeric key (term_id for the inverted index, doc_id
// for the forward index).
type mergeResult struct {
	postingsBlob []byte
	offsets      []OffsetRecord
}

// mergeEntries performs the k-way merge of spec §4.G step 4: combine
// the still-unflushed in-memory buffer with every sorted chunk file,
// merging equal (key, sub) pairs by summing counts, and emit one
// gap-coded postings block per key as the key changes. Grounded on
// the teacher's mergePost (index/write.go), generalized from trigram
// keys to arbitrary dense numeric keys.
//
// postings.Entry is typed by ids.DocID; for the forward build, sub
// values are actually term ids, explicitly converted to ids.DocID
// here purely to reuse the gap-coding codec — never implicitly, and
// never crossing into code that treats them as real document ids.
func mergeEntries(buf []rawEntry, chunkFiles []string, numKeys int) (*mergeResult, error) {
	sortEntries(buf)

	var h entryHeap
	h.addMem(buf)
	readers := make([]*chunkReader, 0, len(chunkFiles))
	for _, path := range chunkFiles {
		r, err := openChunkReader(path)
		if err != nil {
			return nil, err
		}
		readers = append(readers, r)
		h.addFile(r)
	}

	offsets := make([]OffsetRecord, numKeys)
	var out []byte

	var curKey uint64
	var haveCur bool
	var curEntries []postings.Entry

	flush := func() error {
		if !haveCur {
			return nil
		}
		block, err := postings.Encode(curEntries)
		if err != nil {
			return err
		}
		var corpusCount uint64
		for _, e := range curEntries {
			corpusCount += e.Count
		}
		offsets[curKey] = OffsetRecord{
			Offset:      uint64(len(out)),
			Length:      uint64(len(block)),
			DocFreq:     uint64(len(curEntries)),
			CorpusCount: corpusCount,
		}
		out = append(out, block...)
		curEntries = curEntries[:0]
		return nil
	}

	for {
		e, ok := h.next()
		if !ok {
			break
		}
		if !haveCur || e.Key != curKey {
			if err := flush(); err != nil {
				return nil, err
			}
			curKey = e.Key
			haveCur = true
		}
		n := len(curEntries)
		if n > 0 && uint64(curEntries[n-1].Doc) == e.Sub {
			curEntries[n-1].Count += e.Count
			continue
		}
		curEntries = append(curEntries, postings.Entry{Doc: ids.DocID(e.Sub), Count: e.Count})
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return &mergeResult{postingsBlob: out, offsets: offsets}, nil
}
