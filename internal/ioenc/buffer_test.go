package ioenc

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferWriteAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	b, err := NewBuffer(path)
	require.NoError(t, err)

	require.NoError(t, b.Write([]byte("hello ")))
	require.NoError(t, b.Write([]byte("world")))
	require.Equal(t, int64(11), b.Offset())
	require.NoError(t, b.Flush())
	require.NoError(t, b.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestBufferWriteLargerThanCapacityFlushesThenWritesDirect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	b, err := NewBuffer(path)
	require.NoError(t, err)

	require.NoError(t, b.Write([]byte("prefix")))
	big := make([]byte, 300<<10)
	for i := range big {
		big[i] = byte(i)
	}
	require.NoError(t, b.Write(big))
	require.NoError(t, b.Flush())
	require.NoError(t, b.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, append([]byte("prefix"), big...), data)
}

func TestBufferWriteUvarintAndUint64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	b, err := NewBuffer(path)
	require.NoError(t, err)

	require.NoError(t, b.WriteUvarint(300))
	require.NoError(t, b.WriteUint64(0x0102030405060708))
	f, err := b.Reopen()
	require.NoError(t, err)

	data, err := io.ReadAll(f)
	require.NoError(t, err)

	v, n := Uvarint(data)
	require.Equal(t, uint64(300), v)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, data[n:])
	require.NoError(t, b.Close())
}

func TestBufferRemoveDeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	b, err := NewBuffer(path)
	require.NoError(t, err)
	require.NoError(t, b.Write([]byte("data")))
	require.NoError(t, b.Remove())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestNewBufferEmptyNameUsesTempFile(t *testing.T) {
	b, err := NewBuffer("")
	require.NoError(t, err)
	require.NotEmpty(t, b.Name)
	require.NoError(t, b.Remove())
}
