// Package bitvector implements the append-only bit-vector builder and
// the zero-copy read-only bit-vector view (spec §4.B), the substrate
// every succinct structure in this module is built from.
package bitvector

import (
	"encoding/binary"
	"fmt"

	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
)

// Builder accumulates bits MSB-agnostic, LSB-first within each
// 64-bit word, the same accumulator technique the teacher uses for
// gamma-coded deltas (index/delta.go: deltaWriter.writeBits /
// flushBits), generalized to arbitrary bit widths up to 64.
type Builder struct {
	words []uint64
	acc   uint64
	nb    uint // bits currently held in acc, in [0, 64)
	nbits int  // total bits written
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WriteBits appends the low len bits of word (len <= 64, LSB-first).
func (b *Builder) WriteBits(word uint64, length int) {
	if length <= 0 {
		return
	}
	if length > 64 {
		panic("bitvector: WriteBits length > 64")
	}
	if length < 64 {
		word &= (uint64(1) << uint(length)) - 1
	}
	b.nbits += length

	room := 64 - b.nb
	if uint(length) <= room {
		b.acc |= word << b.nb
		b.nb += uint(length)
		if b.nb == 64 {
			b.words = append(b.words, b.acc)
			b.acc, b.nb = 0, 0
		}
		return
	}
	// Split: low `room` bits finish the current word, the remaining
	// length-room bits start the next word.
	b.acc |= (word & ((uint64(1) << room) - 1)) << b.nb
	b.words = append(b.words, b.acc)
	rest := word >> room
	restLen := uint(length) - room
	b.acc = rest
	b.nb = restLen
}

// WriteBit appends a single bit.
func (b *Builder) WriteBit(bit bool) {
	if bit {
		b.WriteBits(1, 1)
	} else {
		b.WriteBits(0, 1)
	}
}

// Len returns the total number of bits written so far.
func (b *Builder) Len() int { return b.nbits }

// Finish flushes any partially-filled final word and returns a
// read-only View over the accumulated bits.
func (b *Builder) Finish() *View {
	words := make([]uint64, len(b.words), len(b.words)+1)
	copy(words, b.words)
	if b.nb > 0 {
		words = append(words, b.acc)
	}
	return &View{words: words, nbits: b.nbits}
}

// View is a zero-copy view over 64-bit words with an explicit bit
// count, per spec §4.B.
type View struct {
	words []uint64
	nbits int
}

// NewView wraps an existing word slice with an explicit bit count.
// nbits must be <= len(words)*64.
func NewView(words []uint64, nbits int) (*View, error) {
	if nbits < 0 || nbits > len(words)*64 {
		return nil, fmt.Errorf("%w: bit count %d exceeds %d words", metaerr.ErrOutOfRange, nbits, len(words))
	}
	return &View{words: words, nbits: nbits}, nil
}

// Len returns the bit count.
func (v *View) Len() int { return v.nbits }

// Words returns the underlying word slice (read-only).
func (v *View) Words() []uint64 { return v.words }

// Bit returns the bit at index i.
func (v *View) Bit(i int) (bool, error) {
	if i < 0 || i >= v.nbits {
		return false, fmt.Errorf("%w: bit %d, size %d", metaerr.ErrOutOfRange, i, v.nbits)
	}
	w := v.words[i/64]
	return (w>>(uint(i)%64))&1 != 0, nil
}

// Extract returns the len bits starting at i (LSB-first), combined
// from one or two adjacent words. Fails with ErrOutOfRange if
// i+len > size, or len > 64.
func (v *View) Extract(i, length int) (uint64, error) {
	if length < 0 || length > 64 {
		return 0, fmt.Errorf("%w: extract length %d", metaerr.ErrOutOfRange, length)
	}
	if length == 0 {
		return 0, nil
	}
	if i < 0 || i+length > v.nbits {
		return 0, fmt.Errorf("%w: extract(%d,%d) exceeds size %d", metaerr.ErrOutOfRange, i, length, v.nbits)
	}
	wordIdx := i / 64
	bitOff := uint(i % 64)
	lo := v.words[wordIdx] >> bitOff

	avail := 64 - bitOff
	if uint(length) <= avail {
		if length == 64 {
			return lo, nil
		}
		return lo & ((uint64(1) << uint(length)) - 1), nil
	}
	// Need bits from the next word too.
	var hi uint64
	if wordIdx+1 < len(v.words) {
		hi = v.words[wordIdx+1]
	}
	combined := lo | (hi << avail)
	if length == 64 {
		return combined, nil
	}
	return combined & ((uint64(1) << uint(length)) - 1), nil
}

// Encode serializes the view as a varint bit count followed by its
// words in little-endian order, the on-disk shape of spec §6's
// bit-vector file plus its ".num_bits" sidecar, inlined into one
// buffer for structures (sarray, darray, compressed int vectors) that
// persist several bit-vectors together.
func (v *View) Encode() []byte {
	out := ioenc.PutUvarint(nil, uint64(v.nbits))
	tmp := make([]byte, 8*len(v.words))
	for i, w := range v.words {
		binary.LittleEndian.PutUint64(tmp[i*8:i*8+8], w)
	}
	return append(out, tmp...)
}

// DecodeView parses a buffer produced by Encode, returning the view
// and the number of bytes consumed.
func DecodeView(buf []byte) (*View, int, error) {
	nbits64, n := ioenc.Uvarint(buf)
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: truncated bit-vector header", metaerr.ErrCorruption)
	}
	nbits := int(nbits64)
	nwords := (nbits + 63) / 64
	need := n + nwords*8
	if need > len(buf) {
		return nil, 0, fmt.Errorf("%w: truncated bit-vector body", metaerr.ErrCorruption)
	}
	words := make([]uint64, nwords)
	off := n
	for i := 0; i < nwords; i++ {
		words[i] = binary.LittleEndian.Uint64(buf[off : off+8])
		off += 8
	}
	view, err := NewView(words, nbits)
	if err != nil {
		return nil, 0, err
	}
	return view, need, nil
}
