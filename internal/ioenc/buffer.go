package ioenc

import (
	"fmt"
	"io"
	"os"
)

// Buffer is a closeable, buffered file writer, modeled directly on
// the teacher's index.Buffer (index/write.go): the builder writes its
// temporary chunk files through one of these.
type Buffer struct {
	Name    string
	file    *os.File
	fileOff int64
	buf     []byte
}

// NewBuffer creates a new file with the given name and returns a
// Buffer wrapping it. If name is empty, a temp file is used (for
// intermediate chunk/merge files that are removed after the build).
func NewBuffer(name string) (*Buffer, error) {
	var (
		f   *os.File
		err error
	)
	if name != "" {
		f, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	} else {
		f, err = os.CreateTemp("", "metaindex")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create buffer: %v", errIO, err)
	}
	return &Buffer{
		Name: f.Name(),
		buf:  make([]byte, 0, 256<<10),
		file: f,
	}, nil
}

// Write appends raw bytes, flushing to disk when the in-memory buffer
// would overflow.
func (b *Buffer) Write(x []byte) error {
	n := cap(b.buf) - len(b.buf)
	if len(x) > n {
		if err := b.Flush(); err != nil {
			return err
		}
		if len(x) >= cap(b.buf) {
			if _, err := b.file.Write(x); err != nil {
				return fmt.Errorf("%w: write %s: %v", errIO, b.Name, err)
			}
			b.fileOff += int64(len(x))
			return nil
		}
	}
	b.buf = append(b.buf, x...)
	return nil
}

// WriteUvarint writes x as a varint.
func (b *Buffer) WriteUvarint(x uint64) error {
	var tmp [10]byte
	n := len(PutUvarint(tmp[:0], x))
	PutUvarint(tmp[:0], x)
	return b.Write(tmp[:n])
}

// WriteUint64 writes x as a fixed-width big-endian uint64.
func (b *Buffer) WriteUint64(x uint64) error {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(x >> (56 - 8*i))
	}
	return b.Write(tmp[:])
}

// Offset returns the current logical write offset.
func (b *Buffer) Offset() int64 {
	return b.fileOff + int64(len(b.buf))
}

// Flush drains the in-memory buffer to disk.
func (b *Buffer) Flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	n, err := b.file.Write(b.buf)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", errIO, b.Name, err)
	}
	if n != len(b.buf) {
		return fmt.Errorf("%w: short write to %s", errIO, b.Name)
	}
	b.fileOff += int64(len(b.buf))
	b.buf = b.buf[:0]
	return nil
}

// Reopen flushes the buffer and returns the file seeked back to
// offset 0, ready to be read back.
func (b *Buffer) Reopen() (*os.File, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s: %v", errIO, b.Name, err)
	}
	return b.file, nil
}

// Close closes the underlying file without removing it.
func (b *Buffer) Close() error {
	return b.file.Close()
}

// Remove closes and deletes the underlying file.
func (b *Buffer) Remove() error {
	name := b.Name
	_ = b.file.Close()
	if name == "" {
		return nil
	}
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", errIO, name, err)
	}
	return nil
}
