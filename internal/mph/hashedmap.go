package mph

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// FixedValue is a fixed-width record type storable in a HashedMap
// slot, mirroring the FixedRecord contract ioenc.DiskVector uses for
// POD views over flat files.
type FixedValue interface {
	Size() int
	Encode(buf []byte)
	Decode(buf []byte) error
}

// fingerprintBits is the default fingerprint width from spec §6,
// giving a false-positive rate of 2^-32 for unknown keys.
const fingerprintBits = 32

// fpBytes is the on-disk width of a fingerprint field.
const fpBytes = 4

// HashedMap pairs an MPH with a flat array of (fingerprint, value)
// records indexed by MPH position, per spec §4.E. Lookup of an
// enrolled key always succeeds; lookup of any other key returns
// found=false unless its fingerprint happens to collide, which
// happens with probability at most 2^-F.
type HashedMap[V any, PT interface {
	*V
	FixedValue
}] struct {
	mph        *MPH
	records    []byte // n * (fpBytes + valueSize), flat
	valueSize  int
	recordSize int
}

// BuildMap constructs a HashedMap from parallel keys/values slices.
// Pass 1 (building the MPH) and pass 2 (placing fingerprinted value
// records at their MPH-assigned slot) are done directly in memory
// here rather than via the spec's external-sort-and-merge of a
// temporary (key, value) file — appropriate at this module's scale;
// see the design ledger for the larger-than-RAM variant.
func BuildMap[V any, PT interface {
	*V
	FixedValue
}](keys [][]byte, values []V, opts Options) (*HashedMap[V, PT], error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: keys/values length mismatch (%d vs %d)", metaerr.ErrCorruption, len(keys), len(values))
	}
	m, err := Build(keys, opts)
	if err != nil {
		return nil, err
	}
	var zero V
	valueSize := PT(&zero).Size()
	recordSize := fpBytes + valueSize

	records := make([]byte, m.N()*recordSize)
	for i, key := range keys {
		idx, err := m.Lookup(key)
		if err != nil {
			return nil, err
		}
		fp := fingerprint(xxhash.Sum64(key) ^ 0x9ae16a3b2f90404f)
		off := idx * recordSize
		binary.LittleEndian.PutUint32(records[off:off+fpBytes], fp)
		v := values[i]
		PT(&v).Encode(records[off+fpBytes : off+recordSize])
	}

	return &HashedMap[V, PT]{
		mph:        m,
		records:    records,
		valueSize:  valueSize,
		recordSize: recordSize,
	}, nil
}

// Lookup returns (value, true) if key is enrolled and its
// fingerprint matches the stored record, or (zero, false) otherwise.
// Per spec §4.E, both outcomes are authoritative for callers; a
// false negative/positive only occurs with probability at most
// 2^-fingerprintBits for keys that were never enrolled.
func (h *HashedMap[V, PT]) Lookup(key []byte) (V, bool, error) {
	var zero V
	if h.mph.N() == 0 {
		return zero, false, nil
	}
	idx, err := h.mph.Lookup(key)
	if err != nil {
		return zero, false, err
	}
	off := idx * h.recordSize
	if off+h.recordSize > len(h.records) {
		return zero, false, fmt.Errorf("%w: hashedmap slot %d out of range", metaerr.ErrCorruption, idx)
	}
	fp := binary.LittleEndian.Uint32(h.records[off : off+fpBytes])
	want := fingerprint(xxhash.Sum64(key) ^ 0x9ae16a3b2f90404f)
	if fp != want {
		return zero, false, nil
	}
	var v V
	if err := PT(&v).Decode(h.records[off+fpBytes : off+h.recordSize]); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Save persists the HashedMap: the underlying MPH directory plus a
// values.bin flat record array, per spec §6.
func (h *HashedMap[V, PT]) Save(dir string) error {
	if err := h.mph.Save(dir); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "values.bin"), h.records, 0o644); err != nil {
		return fmt.Errorf("%w: write values.bin: %v", metaerr.ErrIO, err)
	}
	return nil
}

// LoadHashedMap reads back a HashedMap directory written by Save.
func LoadHashedMap[V any, PT interface {
	*V
	FixedValue
}](dir string) (*HashedMap[V, PT], error) {
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}
	var zero V
	valueSize := PT(&zero).Size()
	recordSize := fpBytes + valueSize

	records, err := os.ReadFile(filepath.Join(dir, "values.bin"))
	if err != nil {
		return nil, fmt.Errorf("%w: read values.bin: %v", metaerr.ErrIO, err)
	}
	if m.N() > 0 && len(records) != m.N()*recordSize {
		return nil, fmt.Errorf("%w: values.bin has %d bytes, want %d", metaerr.ErrBadFileSize, len(records), m.N()*recordSize)
	}

	return &HashedMap[V, PT]{
		mph:        m,
		records:    records,
		valueSize:  valueSize,
		recordSize: recordSize,
	}, nil
}
