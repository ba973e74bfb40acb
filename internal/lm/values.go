// Package lm implements the n-gram language model of spec §4.I: one
// MPH-map per n-gram order (unigram string -> (prob, back-off, id);
// middle orders, sequence of unigram ids -> (prob, back-off); top
// order, sequence -> prob only), plus the stateful KenLM-style
// stupid-backoff scoring algorithm that walks them.
package lm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// unigramID identifies a token in the model's vocabulary. Distinct
// from ids.TermID: this package's vocabulary is the LM's own n-gram
// training vocabulary, not the inverted index's term dictionary.
type unigramID uint32

// UnigramValue is the MPH-map payload for order-1 entries: the
// token's own probability, its back-off weight for extending it into
// a 2-gram context, and the dense id this package assigns it.
type UnigramValue struct {
	Prob    float32
	Backoff float32
	ID      uint32
}

func (v *UnigramValue) Size() int { return 12 }

func (v *UnigramValue) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Prob))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Backoff))
	binary.LittleEndian.PutUint32(buf[8:12], v.ID)
}

func (v *UnigramValue) Decode(buf []byte) error {
	if len(buf) < 12 {
		return fmt.Errorf("%w: short UnigramValue record", metaerr.ErrCorruption)
	}
	v.Prob = math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	v.Backoff = math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	v.ID = binary.LittleEndian.Uint32(buf[8:12])
	return nil
}

// MidValue is the MPH-map payload for middle-order (2..N-1) entries:
// the n-gram's own probability plus its back-off weight.
type MidValue struct {
	Prob    float32
	Backoff float32
}

func (v *MidValue) Size() int { return 8 }

func (v *MidValue) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Prob))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Backoff))
}

func (v *MidValue) Decode(buf []byte) error {
	if len(buf) < 8 {
		return fmt.Errorf("%w: short MidValue record", metaerr.ErrCorruption)
	}
	v.Prob = math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	v.Backoff = math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	return nil
}

// TopValue is the MPH-map payload for the top n-gram order: just a
// probability, since the top order has no further context to back
// off into.
type TopValue struct {
	Prob float32
}

func (v *TopValue) Size() int { return 4 }

func (v *TopValue) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Prob))
}

func (v *TopValue) Decode(buf []byte) error {
	if len(buf) < 4 {
		return fmt.Errorf("%w: short TopValue record", metaerr.ErrCorruption)
	}
	v.Prob = math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	return nil
}

// encodeSeq packs a sequence of unigram ids into the byte key used
// to address the middle/top-order MPH-maps, oldest id first.
func encodeSeq(seq []unigramID) []byte {
	buf := make([]byte, 0, len(seq)*5)
	var tmp [5]byte
	for _, id := range seq {
		n := binary.PutUvarint(tmp[:], uint64(id))
		buf = append(buf, tmp[:n]...)
	}
	return buf
}
