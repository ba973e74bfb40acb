//go:build !unix

package ioenc

import (
	"fmt"
	"io"
	"os"
)

// mmapFile falls back to a plain read on platforms without a mmap
// syscall binding in golang.org/x/sys/unix; the resulting slice is
// still a valid read-only view for every caller in this package.
func mmapFile(f *os.File) ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s: %v", errIO, f.Name(), err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", errIO, f.Name(), err)
	}
	return data, nil
}
