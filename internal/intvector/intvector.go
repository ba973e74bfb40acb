// Package intvector implements the compressed integer vector of spec
// §4.D: a sequence of N unsigned values, each stored in exactly
// msb(v)+1 bits, with O(1) random access via an sarray over the
// cumulative bit-offsets.
package intvector

import (
	"fmt"
	"math/bits"

	"github.com/hakonhall/metaindex/internal/bitvector"
	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/succinct"
)

// IntVector is a read-only compressed integer vector.
type IntVector struct {
	data    *bitvector.View
	offsets *succinct.SArray
	n       int
}

// width returns the number of bits needed to store v: 1 bit if v==0,
// else bits.Len64(v).
func width(v uint64) int {
	if v == 0 {
		return 1
	}
	return bits.Len64(v)
}

// Build packs values into an IntVector.
func Build(values []uint64) (*IntVector, error) {
	n := len(values)
	builder := bitvector.NewBuilder()
	offsets := make([]int, n+1)
	w := 0
	for i, v := range values {
		offsets[i] = w
		builder.WriteBits(v, width(v))
		w += width(v)
	}
	offsets[n] = w

	data := builder.Finish()
	sa, err := succinct.Build(w+1, offsets)
	if err != nil {
		return nil, fmt.Errorf("intvector: build offsets sarray: %w", err)
	}
	return &IntVector{data: data, offsets: sa, n: n}, nil
}

// Len returns the number of stored values.
func (v *IntVector) Len() int { return v.n }

// Get returns the i'th value.
func (v *IntVector) Get(i int) (uint64, error) {
	if i < 0 || i >= v.n {
		return 0, fmt.Errorf("%w: index %d, length %d", metaerr.ErrOutOfRange, i, v.n)
	}
	start, err := v.offsets.Select(i)
	if err != nil {
		return 0, err
	}
	end, err := v.offsets.Select(i + 1)
	if err != nil {
		return 0, err
	}
	return v.data.Extract(start, end-start)
}

// Encode serializes the IntVector as varint(n) followed by the packed
// data bit-vector and the offsets sarray.
func (v *IntVector) Encode() []byte {
	out := ioenc.PutUvarint(nil, uint64(v.n))
	out = append(out, v.data.Encode()...)
	out = append(out, v.offsets.Encode()...)
	return out
}

// DecodeIntVector parses a buffer produced by Encode, returning the
// IntVector and the number of bytes consumed.
func DecodeIntVector(buf []byte) (*IntVector, int, error) {
	n64, n := ioenc.Uvarint(buf)
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: truncated intvector header", metaerr.ErrCorruption)
	}
	off := n

	data, n, err := bitvector.DecodeView(buf[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	offsets, n, err := succinct.DecodeSArray(buf[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	return &IntVector{data: data, offsets: offsets, n: int(n64)}, off, nil
}
