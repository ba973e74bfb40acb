package indexbuild

import (
	"fmt"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// verifyMergedInvariants checks the two summary invariants of spec
// §4.G immediately after a build, modeled on the teacher's
// full-scan Index.Check (index/check.go) but checked from the
// in-memory build state rather than re-reading the written files.
func verifyMergedInvariants(offsets []OffsetRecord, docUnique, docLengths []uint64) error {
	var sumDocFreq, sumCorpusCount uint64
	for _, o := range offsets {
		sumDocFreq += o.DocFreq
		sumCorpusCount += o.CorpusCount
	}
	var sumUnique, sumLengths uint64
	for _, u := range docUnique {
		sumUnique += u
	}
	for _, l := range docLengths {
		sumLengths += l
	}
	if sumDocFreq != sumUnique {
		return fmt.Errorf("%w: sum(doc_freq)=%d != sum(unique_terms)=%d", metaerr.ErrCorruption, sumDocFreq, sumUnique)
	}
	if sumCorpusCount != sumLengths {
		return fmt.Errorf("%w: sum(corpus_count)=%d != sum(doc_length)=%d", metaerr.ErrCorruption, sumCorpusCount, sumLengths)
	}
	return nil
}

// VerifyInvariants re-derives the same two summary invariants from a
// freshly opened Index, for standalone "check" runs (the CLI's
// `check` subcommand) against an index directory nobody just built.
func VerifyInvariants(idx *Index) error {
	var sumDocFreq, sumCorpusCount uint64
	for i := 0; i < idx.offsets.Len(); i++ {
		rec, err := idx.offsets.At(i)
		if err != nil {
			return err
		}
		sumDocFreq += rec.DocFreq
		sumCorpusCount += rec.CorpusCount
	}
	var sumUnique, sumLengths uint64
	for i := 0; i < idx.docUnique.Len(); i++ {
		rec, err := idx.docUnique.At(i)
		if err != nil {
			return err
		}
		sumUnique += uint64(rec)
	}
	for i := 0; i < idx.docSizes.Len(); i++ {
		rec, err := idx.docSizes.At(i)
		if err != nil {
			return err
		}
		sumLengths += uint64(rec)
	}
	if sumDocFreq != sumUnique {
		return fmt.Errorf("%w: sum(doc_freq)=%d != sum(unique_terms)=%d", metaerr.ErrCorruption, sumDocFreq, sumUnique)
	}
	if sumCorpusCount != sumLengths {
		return fmt.Errorf("%w: sum(corpus_count)=%d != sum(doc_length)=%d", metaerr.ErrCorruption, sumCorpusCount, sumLengths)
	}
	return nil
}
