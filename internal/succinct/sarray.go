package succinct

import (
	"fmt"
	"math/bits"

	"github.com/hakonhall/metaindex/internal/bitvector"
	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
)

// SArray represents a strictly increasing sequence of M positions in
// [0, N), split into high/low bits Elias-Fano style, per spec §4.C.
type SArray struct {
	n, m     int
	lowBits  int
	low      *bitvector.View
	high     *bitvector.View
	highSel1 *DArray // select-1 over high (darray)
	highSel0 *DArray // select-0 over high (darray0)
	numZeros int
}

// Build constructs an SArray over a universe of size n from an
// ascending stream of m positions, per spec §4.C.
//
//	low_bits = max(0, floor(log2(N/M)))
func Build(n int, positions []int) (*SArray, error) {
	m := len(positions)
	lowBits := 0
	if m > 0 && n/m > 0 {
		lowBits = bits.Len(uint(n/m)) - 1
	}
	var lowMask uint64
	if lowBits > 0 {
		lowMask = (uint64(1) << uint(lowBits)) - 1
	}

	lowBuilder := bitvector.NewBuilder()
	highSize := m + (n >> lowBits)
	highSet := make([]bool, highSize)

	onesWritten := 0
	prev := -1
	for _, p := range positions {
		if p <= prev || p < 0 || p >= n {
			return nil, fmt.Errorf("%w: sarray positions must be strictly increasing in [0,%d)", metaerr.ErrCorruption, n)
		}
		prev = p
		if lowBits > 0 {
			lowBuilder.WriteBits(uint64(p)&lowMask, lowBits)
		}
		u := (p >> lowBits) + onesWritten
		if u < 0 || u >= highSize {
			return nil, fmt.Errorf("%w: sarray high-stream overflow at position %d", metaerr.ErrCorruption, p)
		}
		highSet[u] = true
		onesWritten++
	}

	highBuilder := bitvector.NewBuilder()
	for _, b := range highSet {
		highBuilder.WriteBit(b)
	}
	highView := highBuilder.Finish()
	lowView := lowBuilder.Finish()

	s := &SArray{
		n:        n,
		m:        m,
		lowBits:  lowBits,
		low:      lowView,
		high:     highView,
		highSel1: BuildDArray(highView, true),
		highSel0: BuildDArray(highView, false),
		numZeros: highSize - m,
	}
	return s, nil
}

// N returns the universe size.
func (s *SArray) N() int { return s.n }

// M returns the number of stored positions.
func (s *SArray) M() int { return s.m }

// Select returns the k-th (0-indexed) stored position.
func (s *SArray) Select(k int) (int, error) {
	if k < 0 || k >= s.m {
		return 0, fmt.Errorf("%w: select(%d), m=%d", metaerr.ErrOutOfRange, k, s.m)
	}
	p, err := s.highSel1.Select(k)
	if err != nil {
		return 0, err
	}
	var low uint64
	if s.lowBits > 0 {
		low, err = s.low.Extract(k*s.lowBits, s.lowBits)
		if err != nil {
			return 0, err
		}
	}
	return ((p - k) << s.lowBits) | int(low), nil
}

// Rank returns the number of stored positions strictly less than i.
func (s *SArray) Rank(i int) (int, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: rank(%d)", metaerr.ErrOutOfRange, i)
	}
	if i > s.n {
		i = s.n
	}
	bucket := i >> s.lowBits
	var ilow uint64
	if s.lowBits > 0 {
		ilow = uint64(i) & ((uint64(1) << uint(s.lowBits)) - 1)
	}

	var boundary int
	if bucket >= s.numZeros {
		boundary = s.high.Len()
	} else {
		b, err := s.highSel0.Select(bucket)
		if err != nil {
			return 0, err
		}
		boundary = b
	}
	rank := boundary - bucket

	k := rank
	pos := boundary - 1
	for pos >= 0 {
		bit, err := s.high.Bit(pos)
		if err != nil {
			return 0, err
		}
		if !bit {
			break
		}
		k--
		var low uint64
		if s.lowBits > 0 {
			low, err = s.low.Extract(k*s.lowBits, s.lowBits)
			if err != nil {
				return 0, err
			}
		}
		if low >= ilow {
			rank--
			pos--
			continue
		}
		break
	}
	return rank, nil
}

// Encode serializes the SArray as varint(n), varint(m), varint(lowBits)
// followed by the low and high bit-vectors. highSel1/highSel0 are
// rebuilt on decode rather than persisted, since BuildDArray over the
// decoded high view reproduces them deterministically.
func (s *SArray) Encode() []byte {
	out := ioenc.PutUvarint(nil, uint64(s.n))
	out = ioenc.PutUvarint(out, uint64(s.m))
	out = ioenc.PutUvarint(out, uint64(s.lowBits))
	out = append(out, s.low.Encode()...)
	out = append(out, s.high.Encode()...)
	return out
}

// DecodeSArray parses a buffer produced by Encode, returning the
// SArray and the number of bytes consumed.
func DecodeSArray(buf []byte) (*SArray, int, error) {
	off := 0
	n64, n := ioenc.Uvarint(buf[off:])
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: truncated sarray header", metaerr.ErrCorruption)
	}
	off += n
	m64, n := ioenc.Uvarint(buf[off:])
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: truncated sarray header", metaerr.ErrCorruption)
	}
	off += n
	lowBits64, n := ioenc.Uvarint(buf[off:])
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: truncated sarray header", metaerr.ErrCorruption)
	}
	off += n

	lowView, n, err := bitvector.DecodeView(buf[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	highView, n, err := bitvector.DecodeView(buf[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	m := int(m64)
	highSize := highView.Len()
	s := &SArray{
		n:        int(n64),
		m:        m,
		lowBits:  int(lowBits64),
		low:      lowView,
		high:     highView,
		highSel1: BuildDArray(highView, true),
		highSel0: BuildDArray(highView, false),
		numZeros: highSize - m,
	}
	return s, off, nil
}
