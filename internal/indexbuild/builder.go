package indexbuild

import (
	"fmt"
	"os"
	"sync"

	"github.com/hakonhall/metaindex/internal/ids"
	"github.com/hakonhall/metaindex/internal/metaerr"
)

// builder accumulates the in-memory chunk buffer, vocabulary,
// per-document metadata, and chunk-file bookkeeping for one index
// build. All of its state is guarded by one mutex, matching the
// teacher's model of a single mutex protecting IndexWriter's shared
// builder state (postEnds, numTrigram) while document analysis itself
// runs unlocked and in parallel (spec §5).
type builder struct {
	dir    string
	tmpDir string
	opts   Options

	mu sync.Mutex

	vocab        map[string]ids.TermID
	vocabStrings []string

	labelIDs     map[string]ids.LabelID
	labelStrings []string

	docNames   []string
	docLengths []uint64
	docUnique  []uint64
	docLabels  []ids.LabelID

	buf      []rawEntry
	fwdBuf   []rawEntry
	bufBytes int64

	chunkFiles    []string
	fwdChunkFiles []string
	nextChunk     int
}

func newBuilder(dir string, opts Options) (*builder, error) {
	opts = opts.normalize()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", metaerr.ErrIO, dir, err)
	}
	tmpDir, err := os.MkdirTemp(dir, "build-")
	if err != nil {
		return nil, fmt.Errorf("%w: mkdir temp in %s: %v", metaerr.ErrIO, dir, err)
	}
	return &builder{
		dir:      dir,
		tmpDir:   tmpDir,
		opts:     opts,
		vocab:    make(map[string]ids.TermID),
		labelIDs: make(map[string]ids.LabelID),
	}, nil
}

// cleanup removes partial build output, mirroring the teacher's
// explicit os.Remove calls in IndexWriter.Flush on a failed build.
func (b *builder) cleanup() {
	os.RemoveAll(b.tmpDir)
	for _, f := range b.chunkFiles {
		os.Remove(f)
	}
	for _, f := range b.fwdChunkFiles {
		os.Remove(f)
	}
}

func ensureLen[T any](s []T, n int) []T {
	for len(s) <= n {
		var zero T
		s = append(s, zero)
	}
	return s
}

// addDocument records one analyzed document's feature map under id,
// interning term strings and appending (term_id, doc_id, count) [and
// (doc_id, term_id, count) if Uninvert] entries to the in-memory
// chunk buffer, flushing to a sorted chunk file whenever the RAM
// budget is exceeded.
func (b *builder) addDocument(id ids.DocID, name, label string, features map[string]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := int(id)
	b.docNames = ensureLen(b.docNames, idx)
	b.docLengths = ensureLen(b.docLengths, idx)
	b.docUnique = ensureLen(b.docUnique, idx)
	b.docLabels = ensureLen(b.docLabels, idx)

	b.docNames[idx] = name
	b.docUnique[idx] = uint64(len(features))
	labelID := b.internLabelLocked(label)
	b.docLabels[idx] = labelID

	var length uint64
	for term, count := range features {
		length += count
		termID := b.internTermLocked(term)
		b.buf = append(b.buf, rawEntry{Key: uint64(termID), Sub: uint64(id), Count: count})
		if b.opts.Uninvert {
			b.fwdBuf = append(b.fwdBuf, rawEntry{Key: uint64(id), Sub: uint64(termID), Count: count})
		}
		b.bufBytes += rawEntrySize
	}
	b.docLengths[idx] = length

	if b.bufBytes >= b.opts.RAMBudget {
		if err := b.flushLocked(); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) internTermLocked(term string) ids.TermID {
	if id, ok := b.vocab[term]; ok {
		return id
	}
	id := ids.TermID(len(b.vocabStrings))
	b.vocabStrings = append(b.vocabStrings, term)
	b.vocab[term] = id
	return id
}

func (b *builder) internLabelLocked(label string) ids.LabelID {
	if label == "" {
		return 0
	}
	if id, ok := b.labelIDs[label]; ok {
		return id
	}
	id := ids.LabelID(len(b.labelStrings))
	b.labelStrings = append(b.labelStrings, label)
	b.labelIDs[label] = id
	return id
}

// flushLocked sorts and writes the current buffers to chunk files.
// Caller must hold b.mu.
func (b *builder) flushLocked() error {
	if len(b.buf) > 0 {
		path, err := writeChunk(b.tmpDir, b.nextChunk, b.buf)
		if err != nil {
			return err
		}
		b.chunkFiles = append(b.chunkFiles, path)
		b.buf = b.buf[:0]
		b.nextChunk++
	}
	if b.opts.Uninvert && len(b.fwdBuf) > 0 {
		path, err := writeChunk(b.tmpDir, b.nextChunk, b.fwdBuf)
		if err != nil {
			return err
		}
		b.fwdChunkFiles = append(b.fwdChunkFiles, path)
		b.fwdBuf = b.fwdBuf[:0]
		b.nextChunk++
	}
	b.bufBytes = 0
	return nil
}
