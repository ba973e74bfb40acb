package lm

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/mph"
)

const auxFileName = "lm.aux.bin"

// Save writes the model to dir: one MPH-map subdirectory per order
// plus an lm.aux.bin header carrying the order, the dense per-unigram
// prob/back-off tables, and the <unk> id.
func (m *Model) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", metaerr.ErrIO, dir, err)
	}
	if err := m.unigramMap.Save(filepath.Join(dir, "unigram")); err != nil {
		return err
	}
	for k := 2; k <= m.order-1; k++ {
		mm := m.mid[k-2]
		if mm == nil {
			continue
		}
		if err := mm.Save(filepath.Join(dir, fmt.Sprintf("order-%d", k))); err != nil {
			return err
		}
	}
	if m.top != nil {
		if err := m.top.Save(filepath.Join(dir, "top")); err != nil {
			return err
		}
	}

	buf := make([]byte, 0, 16+8*len(m.unigramProb))
	buf = ioenc.PutUvarint(buf, uint64(m.order))
	buf = ioenc.PutUvarint(buf, uint64(len(m.unigramProb)))
	unk := uint64(0)
	if m.hasUnk {
		unk = 1
	}
	buf = ioenc.PutUvarint(buf, unk)
	buf = ioenc.PutUvarint(buf, uint64(m.unkID))
	for i := range m.unigramProb {
		var tmp [8]byte
		binary.LittleEndian.PutUint32(tmp[0:4], math.Float32bits(m.unigramProb[i]))
		binary.LittleEndian.PutUint32(tmp[4:8], math.Float32bits(m.unigramBackoff[i]))
		buf = append(buf, tmp[:]...)
	}
	if err := os.WriteFile(filepath.Join(dir, auxFileName), buf, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", metaerr.ErrIO, auxFileName, err)
	}
	return nil
}

// Load reads back a model directory written by Save.
func Load(dir string) (*Model, error) {
	data, err := os.ReadFile(filepath.Join(dir, auxFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", metaerr.ErrIO, auxFileName, err)
	}
	order, n := ioenc.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated lm aux header", metaerr.ErrCorruption)
	}
	off := n
	count, n := ioenc.Uvarint(data[off:])
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated lm aux header", metaerr.ErrCorruption)
	}
	off += n
	hasUnk, n := ioenc.Uvarint(data[off:])
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated lm aux header", metaerr.ErrCorruption)
	}
	off += n
	unkID, n := ioenc.Uvarint(data[off:])
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated lm aux header", metaerr.ErrCorruption)
	}
	off += n

	prob := make([]float32, count)
	backoff := make([]float32, count)
	for i := uint64(0); i < count; i++ {
		if off+8 > len(data) {
			return nil, fmt.Errorf("%w: truncated lm unigram table", metaerr.ErrCorruption)
		}
		prob[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		backoff[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
	}

	unigramMap, err := mph.LoadHashedMap[UnigramValue](filepath.Join(dir, "unigram"))
	if err != nil {
		return nil, err
	}

	model := &Model{
		order:          int(order),
		unigramMap:     unigramMap,
		unigramProb:    prob,
		unigramBackoff: backoff,
		hasUnk:         hasUnk == 1,
		unkID:          uint32(unkID),
	}

	if model.order >= 2 {
		model.mid = make([]*mph.HashedMap[MidValue, *MidValue], model.order-2)
		for k := 2; k <= model.order-1; k++ {
			path := filepath.Join(dir, fmt.Sprintf("order-%d", k))
			if _, err := os.Stat(path); err != nil {
				continue
			}
			mm, err := mph.LoadHashedMap[MidValue](path)
			if err != nil {
				return nil, err
			}
			model.mid[k-2] = mm
		}
		top, err := mph.LoadHashedMap[TopValue](filepath.Join(dir, "top"))
		if err != nil {
			return nil, err
		}
		model.top = top
	}

	return model, nil
}
