// Package indexbuild implements the external-sort inverted (and
// optional forward) index builder of spec §4.G, grounded on the
// teacher's IndexWriter pipeline in index/write.go: a chunked
// in-memory buffer flushed to sorted temporary files once a RAM
// budget is exceeded, followed by a k-way merge (index/write.go's
// postHeap) that accumulates postings per key and writes the final
// varint-coded blocks plus an offset table, and index/check.go's
// full-scan invariant checker.
package indexbuild

// Layout holds the normative on-disk file/directory names of an
// index directory, per spec §6.
var Layout = struct {
	PostingsIndex        string
	PostingsIndexOffsets string
	TermIDsMapping       string
	TermIDsMappingInv    string
	DocIDsMapping        string
	DocSizes             string
	DocUniqueTerms       string
	DocLabels            string
	LabelIDs             string
	LabelIDsInv          string
	ForwardDir           string
}{
	PostingsIndex:        "postings.index",
	PostingsIndexOffsets: "postings.index_offsets",
	TermIDsMapping:       "termids.mapping",
	TermIDsMappingInv:    "termids.mapping.inverse",
	DocIDsMapping:        "docids.mapping",
	DocSizes:             "docsizes.counts",
	DocUniqueTerms:       "docs.uniqueterms",
	DocLabels:            "docs.labels",
	LabelIDs:             "label.ids",
	LabelIDsInv:          "label.ids.inverse",
	ForwardDir:           "fwd",
}

// Options configures a Builder, bound to the config keys of spec §6.
type Options struct {
	// RAMBudget bounds the in-memory chunk buffer size in bytes
	// before it is sorted and flushed to a temporary file. Default
	// 1 GiB, matching indexer-ram-budget's documented default.
	RAMBudget int64
	// MaxWriters bounds the number of documents analyzed
	// concurrently (indexer-max-writers).
	MaxWriters int
	// Uninvert, if true, additionally builds the forward index
	// (doc_id -> (term_id, count) runs) under Layout.ForwardDir.
	Uninvert bool
}

// DefaultOptions returns the spec-documented defaults.
func DefaultOptions() Options {
	return Options{RAMBudget: 1 << 30, MaxWriters: 4, Uninvert: false}
}

func (o Options) normalize() Options {
	if o.RAMBudget <= 0 {
		o.RAMBudget = 1 << 30
	}
	if o.MaxWriters <= 0 {
		o.MaxWriters = 4
	}
	return o
}
