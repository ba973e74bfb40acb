package lm

import (
	"fmt"
	"io"

	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/mph"
)

// Build parses an ARPA-format n-gram stream (spec §4.I "build input:
// an ARPA-format stream with per-order counts") and constructs the
// layered MPH-map model: order 1 keyed by surface string, orders
// 2..N-1 keyed by sequence-of-ids with (prob, back-off), order N
// keyed by sequence-of-ids with prob only.
func Build(r io.Reader) (*Model, error) {
	parsed, err := parseARPA(r)
	if err != nil {
		return nil, err
	}
	if parsed.Order < 1 {
		return nil, fmt.Errorf("%w: ARPA model has no orders", metaerr.ErrCorruption)
	}

	unigrams := parsed.Entries[0]
	wordToID := make(map[string]unigramID, len(unigrams))
	unigramProb := make([]float32, len(unigrams))
	unigramBackoff := make([]float32, len(unigrams))
	unigramKeys := make([][]byte, len(unigrams))
	unigramValues := make([]UnigramValue, len(unigrams))

	for i, e := range unigrams {
		if len(e.Words) != 1 {
			return nil, fmt.Errorf("%w: order-1 entry with %d words", metaerr.ErrCorruption, len(e.Words))
		}
		word := e.Words[0]
		id := unigramID(i)
		wordToID[word] = id
		unigramProb[i] = float32(e.LogProb)
		unigramBackoff[i] = float32(e.Backoff)
		unigramKeys[i] = []byte(word)
		unigramValues[i] = UnigramValue{Prob: float32(e.LogProb), Backoff: float32(e.Backoff), ID: uint32(id)}
	}

	unigramMap, err := mph.BuildMap[UnigramValue](unigramKeys, unigramValues, mph.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("lm: build unigram MPH-map: %w", err)
	}

	model := &Model{
		order:          parsed.Order,
		unigramMap:     unigramMap,
		unigramProb:    unigramProb,
		unigramBackoff: unigramBackoff,
	}
	if id, ok := wordToID["<unk>"]; ok {
		model.hasUnk = true
		model.unkID = uint32(id)
	}

	if parsed.Order >= 2 {
		model.mid = make([]*mph.HashedMap[MidValue, *MidValue], parsed.Order-2)
		for k := 2; k <= parsed.Order-1; k++ {
			mm, err := buildMidOrder(parsed.Entries[k-1], wordToID, k)
			if err != nil {
				return nil, err
			}
			model.mid[k-2] = mm
		}

		top, err := buildTopOrder(parsed.Entries[parsed.Order-1], wordToID, parsed.Order)
		if err != nil {
			return nil, err
		}
		model.top = top
	}

	return model, nil
}

func resolveWords(words []string, wordToID map[string]unigramID) ([]unigramID, error) {
	ids := make([]unigramID, len(words))
	for i, w := range words {
		id, ok := wordToID[w]
		if !ok {
			return nil, fmt.Errorf("%w: n-gram word %q not declared in order-1 section", metaerr.ErrCorruption, w)
		}
		ids[i] = id
	}
	return ids, nil
}

func buildMidOrder(entries []arpaEntry, wordToID map[string]unigramID, order int) (*mph.HashedMap[MidValue, *MidValue], error) {
	if len(entries) == 0 {
		return nil, nil
	}
	keys := make([][]byte, len(entries))
	values := make([]MidValue, len(entries))
	for i, e := range entries {
		if len(e.Words) != order {
			return nil, fmt.Errorf("%w: order-%d entry with %d words", metaerr.ErrCorruption, order, len(e.Words))
		}
		ids, err := resolveWords(e.Words, wordToID)
		if err != nil {
			return nil, err
		}
		keys[i] = encodeSeq(ids)
		values[i] = MidValue{Prob: float32(e.LogProb), Backoff: float32(e.Backoff)}
	}
	mm, err := mph.BuildMap[MidValue](keys, values, mph.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("lm: build order-%d MPH-map: %w", order, err)
	}
	return mm, nil
}

func buildTopOrder(entries []arpaEntry, wordToID map[string]unigramID, order int) (*mph.HashedMap[TopValue, *TopValue], error) {
	keys := make([][]byte, len(entries))
	values := make([]TopValue, len(entries))
	for i, e := range entries {
		if len(e.Words) != order {
			return nil, fmt.Errorf("%w: order-%d entry with %d words", metaerr.ErrCorruption, order, len(e.Words))
		}
		ids, err := resolveWords(e.Words, wordToID)
		if err != nil {
			return nil, err
		}
		keys[i] = encodeSeq(ids)
		values[i] = TopValue{Prob: float32(e.LogProb)}
	}
	mm, err := mph.BuildMap[TopValue](keys, values, mph.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("lm: build top-order MPH-map: %w", err)
	}
	return mm, nil
}
