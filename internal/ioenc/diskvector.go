package ioenc

import (
	"fmt"
	"os"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

var errIO = metaerr.ErrIO

// FixedRecord is a fixed-size POD-like record that DiskVector can
// store one-per-slot in a flat file, mirroring the teacher's
// raw-bit-cast disk-vector idiom (spec §4.A) without relying on
// unsafe layout assumptions across platforms.
type FixedRecord interface {
	// Size returns the marshaled byte width; constant per type.
	Size() int
	// MarshalFixed writes the record into buf, which has length Size().
	MarshalFixed(buf []byte)
	// UnmarshalFixed reads the record from buf, which has length Size().
	UnmarshalFixed(buf []byte) error
}

// DiskVector is a read-only, memory-mapped, typed view over a file
// whose size is an integer multiple of a POD record's width (spec
// §4.A). T must be a value type implementing FixedRecord on *T.
type DiskVector[T any, PT interface {
	*T
	FixedRecord
}] struct {
	data     []byte
	recSize  int
	length   int
	closer   *os.File
}

// OpenDiskVector opens file as a DiskVector of T. Fails with
// ErrBadFileSize if the file size is not a multiple of sizeof(T).
func OpenDiskVector[T any, PT interface {
	*T
	FixedRecord
}](file string) (*DiskVector[T, PT], error) {
	var zero T
	recSize := PT(&zero).Size()

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errIO, file, err)
	}
	data, err := mmapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if recSize == 0 || len(data)%recSize != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: size %d not a multiple of record size %d",
			metaerr.ErrBadFileSize, file, len(data), recSize)
	}
	return &DiskVector[T, PT]{
		data:    data,
		recSize: recSize,
		length:  len(data) / recSize,
		closer:  f,
	}, nil
}

// Len returns the number of records.
func (v *DiskVector[T, PT]) Len() int { return v.length }

// At returns the i'th record, or ErrOutOfRange if i is outside
// [0, Len()).
func (v *DiskVector[T, PT]) At(i int) (T, error) {
	var rec T
	if i < 0 || i >= v.length {
		return rec, fmt.Errorf("%w: index %d, length %d", metaerr.ErrOutOfRange, i, v.length)
	}
	off := i * v.recSize
	if err := PT(&rec).UnmarshalFixed(v.data[off : off+v.recSize]); err != nil {
		return rec, fmt.Errorf("%w: record %d: %v", metaerr.ErrCorruption, i, err)
	}
	return rec, nil
}

// All iterates every record in order.
func (v *DiskVector[T, PT]) All() func(yield func(int, T) bool) {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.length; i++ {
			rec, err := v.At(i)
			if err != nil {
				return
			}
			if !yield(i, rec) {
				return
			}
		}
	}
}

// Close closes the underlying file. The memory mapping is not
// unmapped and stays readable after Close.
func (v *DiskVector[T, PT]) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer.Close()
}

// WriteDiskVector writes records to file as a DiskVector, creating a
// file of exactly len(records)*sizeof(T) bytes.
func WriteDiskVector[T any, PT interface {
	*T
	FixedRecord
}](file string, records []T) error {
	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", errIO, file, err)
	}
	defer f.Close()

	if len(records) == 0 {
		return nil
	}
	recSize := PT(&records[0]).Size()
	buf := make([]byte, recSize)
	for i := range records {
		PT(&records[i]).MarshalFixed(buf)
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("%w: write %s: %v", errIO, file, err)
		}
	}
	return nil
}
