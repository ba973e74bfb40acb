package indexbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hakonhall/metaindex/analysis"
	"github.com/hakonhall/metaindex/corpus"
	"github.com/hakonhall/metaindex/internal/ids"
	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/mph"
)

// Build runs the external-sort index build of spec §4.G: documents
// are read sequentially from reader (doc ids assigned in read order
// for reproducibility) but analyzed concurrently over a bounded
// worker pool, merged via k-way external sort, and written to dir in
// the layout of spec §6. It returns an Index opened over the
// just-written directory. On any failure, partial output is removed.
func Build(ctx context.Context, dir string, reader corpus.Reader, analyzer analysis.Analyzer, opts Options) (*Index, error) {
	opts = opts.normalize()
	b, err := newBuilder(dir, opts)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, opts.MaxWriters)
	var nextID ids.DocID

	for {
		if gctx.Err() != nil {
			break
		}
		doc, ok, err := reader.Next()
		if err != nil {
			b.cleanup()
			return nil, err
		}
		if !ok {
			break
		}
		id := nextID
		nextID++

		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			b.cleanup()
			return nil, fmt.Errorf("%w: build cancelled", metaerr.ErrCancelled)
		}
		g.Go(func() error {
			defer func() { <-sem }()
			features, err := analyzer.Analyze(doc.Body)
			if err != nil {
				return err
			}
			return b.addDocument(id, doc.Name, doc.Label, features)
		})
	}

	if err := g.Wait(); err != nil {
		b.cleanup()
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		b.cleanup()
		return nil, fmt.Errorf("%w: %v", metaerr.ErrCancelled, err)
	}

	if err := b.finish(int(nextID)); err != nil {
		b.cleanup()
		for _, name := range []string{
			Layout.PostingsIndex, Layout.PostingsIndexOffsets, Layout.TermIDsMapping,
			Layout.TermIDsMappingInv, Layout.DocIDsMapping, Layout.DocSizes,
			Layout.DocUniqueTerms, Layout.DocLabels, Layout.LabelIDs,
			Layout.LabelIDsInv, Layout.ForwardDir,
		} {
			os.RemoveAll(filepath.Join(dir, name))
		}
		return nil, err
	}
	os.RemoveAll(b.tmpDir)

	return Open(dir)
}

// finish flushes remaining buffers, merges the inverted (and
// optional forward) postings, and writes every file of spec §6's
// index directory layout.
func (b *builder) finish(numDocs int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.flushLocked(); err != nil {
		return err
	}

	invResult, err := mergeEntries(nil, b.chunkFiles, len(b.vocabStrings))
	if err != nil {
		return fmt.Errorf("indexbuild: merge inverted postings: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.dir, Layout.PostingsIndex), invResult.postingsBlob, 0o644); err != nil {
		return fmt.Errorf("%w: write postings.index: %v", metaerr.ErrIO, err)
	}
	if err := ioenc.WriteDiskVector[OffsetRecord](filepath.Join(b.dir, Layout.PostingsIndexOffsets), invResult.offsets); err != nil {
		return err
	}

	if b.opts.Uninvert {
		fwdDir := filepath.Join(b.dir, Layout.ForwardDir)
		if err := os.MkdirAll(fwdDir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", metaerr.ErrIO, fwdDir, err)
		}
		fwdResult, err := mergeEntries(nil, b.fwdChunkFiles, numDocs)
		if err != nil {
			return fmt.Errorf("indexbuild: merge forward postings: %w", err)
		}
		if err := os.WriteFile(filepath.Join(fwdDir, Layout.PostingsIndex), fwdResult.postingsBlob, 0o644); err != nil {
			return fmt.Errorf("%w: write fwd postings.index: %v", metaerr.ErrIO, err)
		}
		if err := ioenc.WriteDiskVector[OffsetRecord](filepath.Join(fwdDir, Layout.PostingsIndexOffsets), fwdResult.offsets); err != nil {
			return err
		}
	}

	termKeys := make([][]byte, len(b.vocabStrings))
	termValues := make([]TermIDValue, len(b.vocabStrings))
	for i, s := range b.vocabStrings {
		termKeys[i] = []byte(s)
		termValues[i] = TermIDValue(i)
	}
	termMPH, err := mph.BuildMap[TermIDValue](termKeys, termValues, mph.DefaultOptions())
	if err != nil {
		return fmt.Errorf("indexbuild: build vocabulary MPH-map: %w", err)
	}
	if err := termMPH.Save(filepath.Join(b.dir, Layout.TermIDsMapping)); err != nil {
		return err
	}
	termInverse, _ := ioenc.BuildStringTable(b.vocabStrings).Encode()
	if err := os.WriteFile(filepath.Join(b.dir, Layout.TermIDsMappingInv), termInverse, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", metaerr.ErrIO, Layout.TermIDsMappingInv, err)
	}

	docNamesBuf, _ := ioenc.BuildStringTable(b.docNames).Encode()
	if err := os.WriteFile(filepath.Join(b.dir, Layout.DocIDsMapping), docNamesBuf, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", metaerr.ErrIO, Layout.DocIDsMapping, err)
	}

	sizeRecords := make([]U64Record, len(b.docLengths))
	for i, v := range b.docLengths {
		sizeRecords[i] = U64Record(v)
	}
	if err := ioenc.WriteDiskVector[U64Record](filepath.Join(b.dir, Layout.DocSizes), sizeRecords); err != nil {
		return err
	}

	uniqueRecords := make([]U64Record, len(b.docUnique))
	for i, v := range b.docUnique {
		uniqueRecords[i] = U64Record(v)
	}
	if err := ioenc.WriteDiskVector[U64Record](filepath.Join(b.dir, Layout.DocUniqueTerms), uniqueRecords); err != nil {
		return err
	}

	labelRecords := make([]U32Record, len(b.docLabels))
	for i, v := range b.docLabels {
		labelRecords[i] = U32Record(v)
	}
	if err := ioenc.WriteDiskVector[U32Record](filepath.Join(b.dir, Layout.DocLabels), labelRecords); err != nil {
		return err
	}

	labelKeys := make([][]byte, len(b.labelStrings))
	labelValues := make([]TermIDValue, len(b.labelStrings))
	for i, s := range b.labelStrings {
		labelKeys[i] = []byte(s)
		labelValues[i] = TermIDValue(i)
	}
	labelMPH, err := mph.BuildMap[TermIDValue](labelKeys, labelValues, mph.DefaultOptions())
	if err != nil {
		return fmt.Errorf("indexbuild: build label MPH-map: %w", err)
	}
	if err := labelMPH.Save(filepath.Join(b.dir, Layout.LabelIDs)); err != nil {
		return err
	}
	labelInverse, _ := ioenc.BuildStringTable(b.labelStrings).Encode()
	if err := os.WriteFile(filepath.Join(b.dir, Layout.LabelIDsInv), labelInverse, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", metaerr.ErrIO, Layout.LabelIDsInv, err)
	}

	return verifyMergedInvariants(invResult.offsets, b.docUnique, b.docLengths)
}
