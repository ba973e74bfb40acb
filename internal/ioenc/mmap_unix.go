//go:build unix

package ioenc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps f read-only for its entire length and returns the
// mapped bytes. The mapping stays valid after f is closed; nothing
// in this package unmaps it.
func mmapFile(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", errIO, f.Name(), err)
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %v", errIO, f.Name(), err)
	}
	return data, nil
}
