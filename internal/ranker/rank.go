package ranker

import (
	"context"

	"github.com/hakonhall/metaindex/internal/ids"
	"github.com/hakonhall/metaindex/internal/indexbuild"
	"github.com/hakonhall/metaindex/internal/postings"
)

// QueryTerm is one (term, weight) pair of a query, produced
// externally (spec §4.H: "the query is a sequence of (term_string,
// weight) pairs produced externally").
type QueryTerm struct {
	Term   string
	Weight float64
}

// AdmissionFilter decides whether a document may be scored at all;
// the ranker never emits a doc for which this returns false.
type AdmissionFilter func(ids.DocID) bool

type queryContext struct {
	termID      ids.TermID
	weight      float64
	docFreq     uint64
	corpusCount uint64
	stream      *postings.Stream
	curDoc      ids.DocID
	curCount    uint64
	atEnd       bool
}

// advance moves c to the next postings entry that passes admit,
// setting atEnd once the stream is exhausted.
func (c *queryContext) advance(admit AdmissionFilter) error {
	for {
		doc, count, ok, err := c.stream.Next()
		if err != nil {
			return err
		}
		if !ok {
			c.atEnd = true
			return nil
		}
		if admit != nil && !admit(doc) {
			continue
		}
		c.curDoc, c.curCount = doc, count
		return nil
	}
}

// Rank runs the document-at-a-time merge of spec §4.H against idx,
// returning up to topK results sorted by score descending (ties by
// ascending doc id). Query terms absent from the vocabulary are
// silently ignored (OOV contributes zero, never fails). ctx is
// polled at the top of each iteration; on cancellation Rank returns
// the partial top-K accumulated so far along with ctx.Err().
func Rank(ctx context.Context, idx *indexbuild.Index, query []QueryTerm, scorer Scorer, topK int, admit AdmissionFilter) ([]Result, error) {
	contexts := make([]*queryContext, 0, len(query))
	for _, qt := range query {
		termID, found, err := idx.TermID(qt.Term)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		docFreq, err := idx.DocFreq(termID)
		if err != nil {
			return nil, err
		}
		corpusCount, err := idx.CorpusTermCount(termID)
		if err != nil {
			return nil, err
		}
		stream, err := idx.PostingsStream(termID)
		if err != nil {
			return nil, err
		}
		qc := &queryContext{termID: termID, weight: qt.Weight, docFreq: docFreq, corpusCount: corpusCount, stream: stream}
		if err := qc.advance(admit); err != nil {
			return nil, err
		}
		if !qc.atEnd {
			contexts = append(contexts, qc)
		}
	}

	heap := newTopKHeap(topK)
	if len(contexts) == 0 {
		return heap.sorted(), nil
	}

	avgDocLength := idx.AverageDocLength()
	numDocs := idx.NumDocs()
	totalCorpusTerms := idx.TotalCorpusTerms()
	docLevel, _ := scorer.(DocLevelScorer)

	currentDoc, ok := minActiveDoc(contexts)
	if !ok {
		return heap.sorted(), nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return heap.sorted(), err
		}

		var score float64
		for _, c := range contexts {
			if c.atEnd || c.curDoc != currentDoc {
				continue
			}
			docSize, err := idx.DocLength(currentDoc)
			if err != nil {
				return nil, err
			}
			docUnique, err := idx.DocUniqueTerms(currentDoc)
			if err != nil {
				return nil, err
			}
			score += scorer.ScoreOne(ScoreData{
				AverageDocLength: avgDocLength,
				NumDocs:          numDocs,
				TotalCorpusTerms: totalCorpusTerms,
				QueryTermWeight:  c.weight,
				TermID:           c.termID,
				DocID:            currentDoc,
				DocSize:          docSize,
				DocUniqueTerms:   docUnique,
				DocCount:         c.docFreq,
				CorpusTermCount:  c.corpusCount,
				DocTermCount:     c.curCount,
			})
			if err := c.advance(admit); err != nil {
				return nil, err
			}
		}
		if docLevel != nil {
			if docSize, err := idx.DocLength(currentDoc); err == nil {
				score += docLevel.ScoreDoc(len(query), docSize)
			}
		}
		heap.push(Result{Doc: currentDoc, Score: score})

		nextDoc, any := minActiveDoc(contexts)
		if !any {
			break
		}
		currentDoc = nextDoc
	}

	return heap.sorted(), nil
}

// minActiveDoc returns the minimum curDoc among non-exhausted
// contexts.
func minActiveDoc(contexts []*queryContext) (ids.DocID, bool) {
	var min ids.DocID
	found := false
	for _, c := range contexts {
		if c.atEnd {
			continue
		}
		if !found || c.curDoc < min {
			min = c.curDoc
			found = true
		}
	}
	return min, found
}
