package indexbuild

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hakonhall/metaindex/internal/ids"
	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/mph"
	"github.com/hakonhall/metaindex/internal/postings"
)

// Index is a read-only, memory-mapped view over one index directory
// built by Build, exposing exactly the fields the ranker pipeline
// (§4.H) and the language model need: per-term postings, per-term
// and per-document metadata, and string lookups in both directions.
type Index struct {
	dir string

	postingsData []byte
	offsets      *ioenc.DiskVector[OffsetRecord, *OffsetRecord]

	vocabMPH    *mph.HashedMap[TermIDValue, *TermIDValue]
	vocabNames  *ioenc.StringTable
	docNames    *ioenc.StringTable
	docSizes    *ioenc.DiskVector[U64Record, *U64Record]
	docUnique   *ioenc.DiskVector[U64Record, *U64Record]
	docLabels   *ioenc.DiskVector[U32Record, *U32Record]
	labelMPH    *mph.HashedMap[TermIDValue, *TermIDValue]
	labelNames  *ioenc.StringTable

	numDocs          int
	totalCorpusTerms uint64
	avgDocLength     float64

	fwd *Index // non-nil only if fwd/ opens as a complete index directory
}

// Open reads back an index directory written by Build.
func Open(dir string) (*Index, error) {
	postingsData, err := os.ReadFile(filepath.Join(dir, Layout.PostingsIndex))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", metaerr.ErrIO, Layout.PostingsIndex, err)
	}
	offsets, err := ioenc.OpenDiskVector[OffsetRecord](filepath.Join(dir, Layout.PostingsIndexOffsets))
	if err != nil {
		return nil, err
	}
	vocabMPH, err := mph.LoadHashedMap[TermIDValue](filepath.Join(dir, Layout.TermIDsMapping))
	if err != nil {
		return nil, err
	}
	vocabNames, err := readStringTable(filepath.Join(dir, Layout.TermIDsMappingInv))
	if err != nil {
		return nil, err
	}
	docNames, err := readStringTable(filepath.Join(dir, Layout.DocIDsMapping))
	if err != nil {
		return nil, err
	}
	docSizes, err := ioenc.OpenDiskVector[U64Record](filepath.Join(dir, Layout.DocSizes))
	if err != nil {
		return nil, err
	}
	docUnique, err := ioenc.OpenDiskVector[U64Record](filepath.Join(dir, Layout.DocUniqueTerms))
	if err != nil {
		return nil, err
	}
	docLabels, err := ioenc.OpenDiskVector[U32Record](filepath.Join(dir, Layout.DocLabels))
	if err != nil {
		return nil, err
	}
	labelMPH, err := mph.LoadHashedMap[TermIDValue](filepath.Join(dir, Layout.LabelIDs))
	if err != nil {
		return nil, err
	}
	labelNames, err := readStringTable(filepath.Join(dir, Layout.LabelIDsInv))
	if err != nil {
		return nil, err
	}

	idx := &Index{
		dir:          dir,
		postingsData: postingsData,
		offsets:      offsets,
		vocabMPH:     vocabMPH,
		vocabNames:   vocabNames,
		docNames:     docNames,
		docSizes:     docSizes,
		docUnique:    docUnique,
		docLabels:    docLabels,
		labelMPH:     labelMPH,
		labelNames:   labelNames,
		numDocs:      docSizes.Len(),
	}
	for i := 0; i < docSizes.Len(); i++ {
		rec, err := docSizes.At(i)
		if err != nil {
			return nil, err
		}
		idx.totalCorpusTerms += uint64(rec)
	}
	if idx.numDocs > 0 {
		idx.avgDocLength = float64(idx.totalCorpusTerms) / float64(idx.numDocs)
	}

	if fi, err := os.Stat(filepath.Join(dir, Layout.ForwardDir)); err == nil && fi.IsDir() {
		fwd, err := Open(filepath.Join(dir, Layout.ForwardDir))
		if err == nil {
			idx.fwd = fwd
		}
	}

	return idx, nil
}

func readStringTable(path string) (*ioenc.StringTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", metaerr.ErrIO, path, err)
	}
	return ioenc.DecodeStringTable(data, nil)
}

// Close releases the memory-mapped disk vectors.
func (idx *Index) Close() error {
	idx.offsets.Close()
	idx.docSizes.Close()
	idx.docUnique.Close()
	idx.docLabels.Close()
	if idx.fwd != nil {
		idx.fwd.Close()
	}
	return nil
}

// NumDocs returns the number of documents in the index.
func (idx *Index) NumDocs() int { return idx.numDocs }

// NumTerms returns the size of the vocabulary.
func (idx *Index) NumTerms() int { return idx.vocabNames.Len() }

// AverageDocLength returns the mean document length across the corpus.
func (idx *Index) AverageDocLength() float64 { return idx.avgDocLength }

// TotalCorpusTerms returns the sum of all document lengths.
func (idx *Index) TotalCorpusTerms() uint64 { return idx.totalCorpusTerms }

// TermID resolves a surface string to its term id, or found=false if
// it is not in the vocabulary.
func (idx *Index) TermID(term string) (ids.TermID, bool, error) {
	v, found, err := idx.vocabMPH.Lookup([]byte(term))
	if err != nil || !found {
		return 0, false, err
	}
	return ids.TermID(v), true, nil
}

// TermString returns the surface string for a term id.
func (idx *Index) TermString(id ids.TermID) (string, error) {
	return idx.vocabNames.At(int(id))
}

// DocName returns the name/path of a document.
func (idx *Index) DocName(id ids.DocID) (string, error) {
	return idx.docNames.At(int(id))
}

// DocLength returns a document's total term count.
func (idx *Index) DocLength(id ids.DocID) (uint64, error) {
	rec, err := idx.docSizes.At(int(id))
	return uint64(rec), err
}

// DocUniqueTerms returns a document's distinct term count.
func (idx *Index) DocUniqueTerms(id ids.DocID) (uint64, error) {
	rec, err := idx.docUnique.At(int(id))
	return uint64(rec), err
}

// DocLabel returns a document's classification label id.
func (idx *Index) DocLabel(id ids.DocID) (ids.LabelID, error) {
	rec, err := idx.docLabels.At(int(id))
	return ids.LabelID(rec), err
}

// LabelName returns the string for a label id.
func (idx *Index) LabelName(id ids.LabelID) (string, error) {
	return idx.labelNames.At(int(id))
}

// offsetFor returns the OffsetRecord for a term id, failing with
// ErrOutOfRange if the id is not in [0, V).
func (idx *Index) offsetFor(term ids.TermID) (OffsetRecord, error) {
	return idx.offsets.At(int(term))
}

// PostingsStream opens a forward-only postings stream for term.
func (idx *Index) PostingsStream(term ids.TermID) (*postings.Stream, error) {
	rec, err := idx.offsetFor(term)
	if err != nil {
		return nil, err
	}
	if rec.Offset+rec.Length > uint64(len(idx.postingsData)) {
		return nil, fmt.Errorf("%w: postings block for term %d out of range", metaerr.ErrCorruption, term)
	}
	block := idx.postingsData[rec.Offset : rec.Offset+rec.Length]
	return postings.NewStream(block)
}

// DocFreq returns a term's document frequency directly from the
// offset table, without opening its postings stream.
func (idx *Index) DocFreq(term ids.TermID) (uint64, error) {
	rec, err := idx.offsetFor(term)
	return rec.DocFreq, err
}

// CorpusTermCount returns a term's total occurrence count across the
// corpus, directly from the offset table.
func (idx *Index) CorpusTermCount(term ids.TermID) (uint64, error) {
	rec, err := idx.offsetFor(term)
	return rec.CorpusCount, err
}

// Forward returns the index opened from the fwd/ subdirectory, or
// nil. Open attaches it only when fwd/ opens as a complete index
// directory. Build with Uninvert writes only postings.index and
// postings.index_offsets under fwd/, so for an index written by Build
// Forward returns nil and the forward postings are not reachable
// through Index.
func (idx *Index) Forward() *Index { return idx.fwd }
