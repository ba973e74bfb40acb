package ranker

import "github.com/hakonhall/metaindex/internal/ids"

// Result is one scored document, as emitted by Rank.
type Result struct {
	Doc   ids.DocID
	Score float64
}

// topKHeap is a bounded min-heap of size K ordered so its root is
// always the weakest kept candidate — comparator (score asc, doc
// desc), the inverse of the final presentation order (score desc,
// doc asc) — so a new candidate only displaces the root when it is
// strictly better, matching spec §4.H's "insert when heap is smaller
// than K or candidate beats the heap root". Hand-rolled rather than
// container/heap to match this module's existing binary-heap style
// (internal/indexbuild's entryHeap).
type topKHeap struct {
	items []Result
	k     int
}

func newTopKHeap(k int) *topKHeap {
	return &topKHeap{k: k}
}

// worse reports whether a should be evicted before b: lower score is
// worse, and among equal scores the larger doc id is worse (so ties
// settle with the smaller doc id surviving, matching the final
// ascending-doc-id tie-break).
func worse(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Doc > b.Doc
}

func (h *topKHeap) push(r Result) {
	if h.k <= 0 {
		return
	}
	if len(h.items) < h.k {
		h.items = append(h.items, r)
		h.siftUp(len(h.items) - 1)
		return
	}
	if !worse(h.items[0], r) {
		return
	}
	h.items[0] = r
	h.siftDown(0)
}

func (h *topKHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(h.items[i], h.items[parent]) {
			break
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

func (h *topKHeap) siftDown(i int) {
	n := len(h.items)
	for {
		left, right, smallest := 2*i+1, 2*i+2, i
		if left < n && worse(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && worse(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// before reports whether a sorts ahead of b in final presentation
// order: score descending, ties broken by doc id ascending.
func before(a, b Result) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Doc < b.Doc
}

// sorted drains the heap into final presentation order: score
// descending, ties broken by doc id ascending.
func (h *topKHeap) sorted() []Result {
	out := make([]Result, len(h.items))
	copy(out, h.items)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && before(out[j], out[j-1]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
