// Package ranker implements the document-at-a-time scoring pipeline
// of spec §4.H: a bounded top-K merge over one postings stream per
// query term, driving a pluggable relevance scorer.
package ranker

import (
	"github.com/hakonhall/metaindex/internal/ids"
)

// ScoreData is the per-(term,doc) scoring context exposed to a
// Scorer, exactly the field set named in spec §4.H.
type ScoreData struct {
	AverageDocLength float64
	NumDocs          int
	TotalCorpusTerms uint64
	QueryTermWeight  float64
	TermID           ids.TermID
	DocID            ids.DocID
	DocSize          uint64
	DocUniqueTerms   uint64
	DocCount         uint64 // document frequency (df)
	CorpusTermCount  uint64 // corpus-wide occurrence count (cf)
	DocTermCount     uint64 // occurrences of term in this doc (tf)
}

// Scorer accumulates a relevance contribution for one query term
// matching one document. ScoreOne is called once per matching
// (term, doc) pair during the document-at-a-time merge; the ranker
// sums its return values across all query terms matching a document.
type Scorer interface {
	ScoreOne(d ScoreData) float64
}
