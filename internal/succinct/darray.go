// Package succinct implements the sparse (sarray) and dense (darray)
// rank/select structures of spec §4.C, the Elias-Fano-style substrate
// the rest of the index core is built on.
package succinct

import (
	"fmt"
	"math/bits"

	"github.com/hakonhall/metaindex/internal/bitvector"
	"github.com/hakonhall/metaindex/internal/metaerr"
)

// Tuning constants from spec §3/§4.C.
const (
	blockSize    = 1024  // L
	blockSpanMax = 65536 // L2
	subBlockStep = 32    // L3
)

// nextBit scans words (nbits total bits) starting at from for the next
// bit position whose value equals want, returning (pos, true), or
// (0, false) if none remains. Word-at-a-time via TrailingZeros64,
// the same bit-scan idiom the teacher uses for gamma decoding
// (index/delta.go).
func nextBit(words []uint64, nbits, from int, want bool) (int, bool) {
	for from < nbits {
		w := words[from/64]
		if !want {
			w = ^w
		}
		w >>= uint(from % 64)
		if w != 0 {
			pos := from + bits.TrailingZeros64(w)
			if pos >= nbits {
				return 0, false
			}
			return pos, true
		}
		from += 64 - from%64
	}
	return 0, false
}

type blockMeta struct {
	explicit  bool
	base      int // first position in block (non-explicit)
	subOff    int // index into subBlocks (non-explicit)
	subCount  int
	explOff   int // index into explicit (explicit blocks)
	explCount int
}

// DArray indexes the positions of bits equal to wantOne in a
// bitvector.View for O(1)-amortized select, per spec §4.C. Passing
// wantOne=false over the same view is the "darray0" variant
// (select-0), sharing one implementation as the spec's description
// of the algorithm is identical modulo complementing the bit test.
type DArray struct {
	view      *bitvector.View
	wantOne   bool
	blocks    []blockMeta
	subBlocks []uint16
	explicit  []uint64
	numOnes   int
}

// BuildDArray constructs a DArray over view, indexing bit positions
// equal to wantOne.
func BuildDArray(view *bitvector.View, wantOne bool) *DArray {
	d := &DArray{view: view, wantOne: wantOne}
	words := view.Words()
	nbits := view.Len()

	var cur []int
	pos := 0
	for {
		p, ok := nextBit(words, nbits, pos, wantOne)
		if !ok {
			break
		}
		cur = append(cur, p)
		d.numOnes++
		pos = p + 1
		if len(cur) == blockSize {
			d.blocks = append(d.blocks, d.finalizeBlock(cur))
			cur = cur[:0]
		}
	}
	if len(cur) > 0 {
		d.blocks = append(d.blocks, d.finalizeBlock(cur))
	}
	return d
}

func (d *DArray) finalizeBlock(cur []int) blockMeta {
	first, last := cur[0], cur[len(cur)-1]
	if last-first > blockSpanMax {
		off := len(d.explicit)
		for _, p := range cur {
			d.explicit = append(d.explicit, uint64(p))
		}
		return blockMeta{explicit: true, explOff: off, explCount: len(cur)}
	}
	subOff := len(d.subBlocks)
	subCount := (len(cur) + subBlockStep - 1) / subBlockStep
	for j := 0; j < subCount; j++ {
		idx := j * subBlockStep
		if idx >= len(cur) {
			idx = len(cur) - 1
		}
		d.subBlocks = append(d.subBlocks, uint16(cur[idx]-first))
	}
	return blockMeta{base: first, subOff: subOff, subCount: subCount}
}

// NumOnes returns the number of indexed positions.
func (d *DArray) NumOnes() int { return d.numOnes }

// Select returns the 0-indexed position of the k-th bit equal to
// wantOne. Complexity O(subBlockStep/64) = O(1).
func (d *DArray) Select(k int) (int, error) {
	if k < 0 || k >= d.numOnes {
		return 0, fmt.Errorf("%w: select(%d), count %d", metaerr.ErrOutOfRange, k, d.numOnes)
	}
	b := k / blockSize
	within := k % blockSize
	meta := d.blocks[b]
	if meta.explicit {
		return int(d.explicit[meta.explOff+within]), nil
	}
	subIdx := within / subBlockStep
	if subIdx >= meta.subCount {
		subIdx = meta.subCount - 1
	}
	start := meta.base + int(d.subBlocks[meta.subOff+subIdx])
	remaining := within - subIdx*subBlockStep
	if remaining == 0 {
		return start, nil
	}
	words := d.view.Words()
	nbits := d.view.Len()
	pos := start + 1
	for {
		p, ok := nextBit(words, nbits, pos, d.wantOne)
		if !ok {
			return 0, fmt.Errorf("%w: select(%d) ran past end of vector", metaerr.ErrCorruption, k)
		}
		remaining--
		if remaining == 0 {
			return p, nil
		}
		pos = p + 1
	}
}
