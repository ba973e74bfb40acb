package ranker

import "math"

// DocLevelScorer is implemented by scorers whose formula (spec §4.H)
// includes a term applied once per scored document regardless of how
// many query terms matched it — dirichlet_prior's `|q|·log(μ/(dl+μ))`.
// The ranker calls ScoreDoc once per emitted document, after summing every
// matching term's ScoreOne, passing the number of query terms in the
// request and the document's length.
type DocLevelScorer interface {
	Scorer
	ScoreDoc(numQueryTerms int, docLength uint64) float64
}

// BM25 implements Okapi BM25 with the standard k1/b/k3 parameters.
type BM25 struct {
	K1, B, K3 float64
}

func (s BM25) ScoreOne(d ScoreData) float64 {
	if d.DocCount == 0 || d.DocTermCount == 0 {
		return 0
	}
	idf := math.Log(float64(d.NumDocs+1) / float64(d.DocCount))
	tf := float64(d.DocTermCount)
	dl := float64(d.DocSize)
	avgdl := d.AverageDocLength
	if avgdl <= 0 {
		avgdl = 1
	}
	norm := s.K1 * (1 - s.B + s.B*dl/avgdl)
	tfWeight := tf * (s.K1 + 1) / (tf + norm)
	qtf := d.QueryTermWeight
	qWeight := qtf * (s.K3 + 1) / (s.K3 + qtf)
	return idf * tfWeight * qWeight
}

// PivotedLength implements pivoted document length normalization.
type PivotedLength struct {
	S float64
}

func (s PivotedLength) ScoreOne(d ScoreData) float64 {
	if d.DocCount == 0 || d.DocTermCount == 0 {
		return 0
	}
	tf := float64(d.DocTermCount)
	dl := float64(d.DocSize)
	avgdl := d.AverageDocLength
	if avgdl <= 0 {
		avgdl = 1
	}
	numer := 1 + math.Log(1+math.Log(tf))
	denom := 1 - s.S + s.S*dl/avgdl
	idf := math.Log(float64(d.NumDocs+1) / float64(d.DocCount))
	return d.QueryTermWeight * numer / denom * idf
}

// JelinekMercer implements linear-interpolation smoothing against the
// collection language model.
type JelinekMercer struct {
	Lambda float64
}

func (s JelinekMercer) ScoreOne(d ScoreData) float64 {
	if d.CorpusTermCount == 0 || d.DocSize == 0 {
		return 0
	}
	tf := float64(d.DocTermCount)
	dl := float64(d.DocSize)
	cf := float64(d.CorpusTermCount)
	corpusLen := float64(d.TotalCorpusTerms)
	ratio := (1 - s.Lambda) / s.Lambda * (tf * corpusLen) / (cf * dl)
	return d.QueryTermWeight * math.Log(1+ratio)
}

// DirichletPrior implements Bayesian smoothing with a Dirichlet prior
// over the collection language model.
type DirichletPrior struct {
	Mu float64
}

func (s DirichletPrior) ScoreOne(d ScoreData) float64 {
	if d.CorpusTermCount == 0 || s.Mu == 0 {
		return 0
	}
	tf := float64(d.DocTermCount)
	cf := float64(d.CorpusTermCount)
	corpusLen := float64(d.TotalCorpusTerms)
	return d.QueryTermWeight * math.Log(1+tf*corpusLen/(s.Mu*cf))
}

func (s DirichletPrior) ScoreDoc(numQueryTerms int, docLength uint64) float64 {
	dl := float64(docLength)
	return float64(numQueryTerms) * math.Log(s.Mu/(dl+s.Mu))
}

// AbsoluteDiscount implements absolute discounting smoothing
// (Zhai & Lafferty) with per-term back-off onto the collection model.
type AbsoluteDiscount struct {
	Delta float64
}

func (s AbsoluteDiscount) ScoreOne(d ScoreData) float64 {
	if d.CorpusTermCount == 0 || d.DocSize == 0 || d.TotalCorpusTerms == 0 {
		return 0
	}
	tf := float64(d.DocTermCount)
	dl := float64(d.DocSize)
	u := float64(d.DocUniqueTerms)
	pColl := float64(d.CorpusTermCount) / float64(d.TotalCorpusTerms)
	discounted := math.Max(tf-s.Delta, 0)
	backoff := s.Delta * u / dl * pColl
	if backoff <= 0 {
		return 0
	}
	p := discounted/dl + backoff
	return d.QueryTermWeight * math.Log(p/backoff)
}
