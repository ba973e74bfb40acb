package lm

import (
	"fmt"

	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/mph"
)

// Model is a back-off n-gram language model of order N (spec §4.I):
// an MPH-map per order plus the dense per-unigram prob/back-off
// tables needed to resolve order-1 fallbacks and context back-offs
// without a map lookup.
type Model struct {
	order int

	unigramMap     *mph.HashedMap[UnigramValue, *UnigramValue]
	unigramProb    []float32
	unigramBackoff []float32

	// mid[k-2] holds the order-k map, for k in [2, order-1]; empty
	// (nil entries) when order <= 2, since there are no middle orders.
	mid []*mph.HashedMap[MidValue, *MidValue]

	// top is the order-N map, present whenever order >= 2.
	top *mph.HashedMap[TopValue, *TopValue]

	hasUnk bool
	unkID  uint32
}

// Order returns N, the model's maximum n-gram order.
func (m *Model) Order() int { return m.order }

// ResolveToken returns the dense unigram id for a surface token, or
// found=false if it is out-of-vocabulary.
func (m *Model) ResolveToken(token string) (id uint32, found bool, err error) {
	v, found, err := m.unigramMap.Lookup([]byte(token))
	if err != nil || !found {
		return 0, found, err
	}
	return v.ID, true, nil
}

// Score implements spec §4.I's stateful scoring step:
// score(in_state, token) -> (log_prob, out_state). in_state is an
// ordered history of at most N-1 unigram ids; the returned out_state
// is the "matched suffix" to pass as in_state on the next call.
// Probabilities and back-offs are returned in whatever base the
// model was built from (ARPA files conventionally use log10).
func (m *Model) Score(inState []uint32, token string) (float64, []uint32, error) {
	tid, found, err := m.unigramMap.Lookup([]byte(token))
	if err != nil {
		return 0, nil, err
	}
	var id uint32
	switch {
	case found:
		id = tid.ID
	case m.hasUnk:
		id = m.unkID
	default:
		return 0, nil, fmt.Errorf("%w: token %q is out-of-vocabulary and model has no <unk>", metaerr.ErrNotFound, token)
	}

	if m.order == 1 {
		return float64(m.unigramProb[id]), []uint32{id}, nil
	}

	seq := make([]unigramID, len(inState)+1)
	for i, s := range inState {
		seq[i] = unigramID(s)
	}
	seq[len(inState)] = unigramID(id)

	var backoffSum float64

	if len(seq) == m.order {
		val, found, err := m.top.Lookup(encodeSeq(seq))
		if err != nil {
			return 0, nil, err
		}
		if found {
			return float64(val.Prob), toUint32(seq[1:]), nil
		}
		bo, err := m.backoffOf(seq[:len(seq)-1])
		if err != nil {
			return 0, nil, err
		}
		backoffSum += bo
		seq = seq[1:]
	}

	for len(seq) >= 2 {
		if mm := m.mid[len(seq)-2]; mm != nil {
			val, found, err := mm.Lookup(encodeSeq(seq))
			if err != nil {
				return 0, nil, err
			}
			if found {
				return float64(val.Prob) + backoffSum, toUint32(seq), nil
			}
		}
		bo, err := m.backoffOf(seq[:len(seq)-1])
		if err != nil {
			return 0, nil, err
		}
		backoffSum += bo
		seq = seq[1:]
	}

	return float64(m.unigramProb[id]) + backoffSum, []uint32{id}, nil
}

// backoffOf returns the stored back-off weight for a context (a
// sequence of unigram ids not including the scored token), or 0 (no
// penalty) if the context itself is unseen.
func (m *Model) backoffOf(context []unigramID) (float64, error) {
	if len(context) == 1 {
		return float64(m.unigramBackoff[context[0]]), nil
	}
	mm := m.mid[len(context)-2]
	if mm == nil {
		return 0, nil
	}
	val, found, err := mm.Lookup(encodeSeq(context))
	if err != nil || !found {
		return 0, err
	}
	return float64(val.Backoff), nil
}

func toUint32(seq []unigramID) []uint32 {
	out := make([]uint32, len(seq))
	for i, v := range seq {
		out[i] = uint32(v)
	}
	return out
}
