package mph

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hakonhall/metaindex/internal/intvector"
	"github.com/hakonhall/metaindex/internal/ioenc"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/succinct"
)

// MPH is a minimal perfect hash over a static key set of size N,
// mapping each key to a distinct index in [0, N), per spec §4.E.
type MPH struct {
	n        int
	b        int
	t        int
	baseSeed uint64
	seeds    *intvector.IntVector
	empty    *succinct.SArray
}

// N returns the size of the key set the MPH was built over.
func (m *MPH) N() int { return m.n }

// Lookup returns the index in [0, N) assigned to key. The result is
// meaningful only for keys that were enrolled at build time; looking
// up an unknown key still returns some value in [0, N), per spec
// §4.E — callers needing existence must go through a HashedMap and
// its fingerprint check.
func (m *MPH) Lookup(key []byte) (int, error) {
	if m.n == 0 {
		return 0, fmt.Errorf("%w: lookup against empty MPH", metaerr.ErrOutOfRange)
	}
	if m.n == 1 {
		return 0, nil
	}
	h := h0(key, m.baseSeed)
	bi := h % uint64(m.b)
	s, err := m.seeds.Get(int(bi))
	if err != nil {
		return 0, err
	}
	p := int(h1(h, s) % uint64(m.t))
	rankEmpty, err := m.empty.Rank(p)
	if err != nil {
		return 0, err
	}
	idx := p - rankEmpty
	if idx < 0 || idx >= m.n {
		return 0, fmt.Errorf("%w: mph produced out-of-range index %d for n=%d", metaerr.ErrCorruption, idx, m.n)
	}
	return idx, nil
}

// Save writes the MPH's on-disk layout per spec §6: a seeds file
// (compressed-int-vector) and a sarray file (empty-slot rank
// structure), both only when N > 0, and a hash-metadata.bin trailer
// of varints (baseSeed, num_bins=T, B). N is not stored; Load
// recovers it as T minus the empty-slot count.
func (m *MPH) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", metaerr.ErrIO, dir, err)
	}
	if m.n > 0 {
		if err := os.WriteFile(filepath.Join(dir, "seeds"), m.seeds.Encode(), 0o644); err != nil {
			return fmt.Errorf("%w: write seeds: %v", metaerr.ErrIO, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "sarray"), m.empty.Encode(), 0o644); err != nil {
			return fmt.Errorf("%w: write sarray: %v", metaerr.ErrIO, err)
		}
	}
	meta := ioenc.PutUvarint(nil, m.baseSeed)
	meta = ioenc.PutUvarint(meta, uint64(m.t))
	meta = ioenc.PutUvarint(meta, uint64(m.b))
	if err := os.WriteFile(filepath.Join(dir, "hash-metadata.bin"), meta, 0o644); err != nil {
		return fmt.Errorf("%w: write hash-metadata.bin: %v", metaerr.ErrIO, err)
	}
	return nil
}

// Load reads back an MPH directory written by Save.
func Load(dir string) (*MPH, error) {
	meta, err := os.ReadFile(filepath.Join(dir, "hash-metadata.bin"))
	if err != nil {
		return nil, fmt.Errorf("%w: read hash-metadata.bin: %v", metaerr.ErrIO, err)
	}
	baseSeed, n1 := ioenc.Uvarint(meta)
	if n1 <= 0 {
		return nil, fmt.Errorf("%w: truncated hash-metadata.bin", metaerr.ErrCorruption)
	}
	t64, n2 := ioenc.Uvarint(meta[n1:])
	if n2 <= 0 {
		return nil, fmt.Errorf("%w: truncated hash-metadata.bin", metaerr.ErrCorruption)
	}
	b64, n3 := ioenc.Uvarint(meta[n1+n2:])
	if n3 <= 0 {
		return nil, fmt.Errorf("%w: truncated hash-metadata.bin", metaerr.ErrCorruption)
	}
	t := int(t64)
	b := int(b64)

	if t == 0 {
		return &MPH{n: 0, b: 1, t: 1}, nil
	}

	seedsBuf, err := os.ReadFile(filepath.Join(dir, "seeds"))
	if err != nil {
		return nil, fmt.Errorf("%w: read seeds: %v", metaerr.ErrIO, err)
	}
	seeds, _, err := intvector.DecodeIntVector(seedsBuf)
	if err != nil {
		return nil, err
	}

	emptyBuf, err := os.ReadFile(filepath.Join(dir, "sarray"))
	if err != nil {
		return nil, fmt.Errorf("%w: read sarray: %v", metaerr.ErrIO, err)
	}
	empty, _, err := succinct.DecodeSArray(emptyBuf)
	if err != nil {
		return nil, err
	}

	n := t - empty.M()
	return &MPH{
		n:        n,
		b:        b,
		t:        t,
		baseSeed: baseSeed,
		seeds:    seeds,
		empty:    empty,
	}, nil
}
