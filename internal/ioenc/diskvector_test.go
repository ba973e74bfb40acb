package ioenc

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// u64Rec is a minimal FixedRecord used only to exercise DiskVector.
type u64Rec uint64

func (r *u64Rec) Size() int { return 8 }
func (r *u64Rec) MarshalFixed(buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(*r))
}
func (r *u64Rec) UnmarshalFixed(buf []byte) error {
	*r = u64Rec(binary.LittleEndian.Uint64(buf))
	return nil
}

func TestWriteOpenDiskVectorRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	records := []u64Rec{10, 20, 30, 40, 50}
	require.NoError(t, WriteDiskVector(path, records))

	dv, err := OpenDiskVector[u64Rec](path)
	require.NoError(t, err)
	defer dv.Close()

	require.Equal(t, len(records), dv.Len())
	for i, want := range records {
		got, err := dv.At(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDiskVectorAtOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	require.NoError(t, WriteDiskVector(path, []u64Rec{1, 2, 3}))

	dv, err := OpenDiskVector[u64Rec](path)
	require.NoError(t, err)
	defer dv.Close()

	_, err = dv.At(3)
	require.Error(t, err)
}

func TestOpenDiskVectorRejectsBadFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, WriteDiskVector(path, []u64Rec{1, 2, 3}))

	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = OpenDiskVector[u64Rec](path)
	require.Error(t, err)
}

func TestDiskVectorAllIteratesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	records := []u64Rec{7, 8, 9}
	require.NoError(t, WriteDiskVector(path, records))

	dv, err := OpenDiskVector[u64Rec](path)
	require.NoError(t, err)
	defer dv.Close()

	var got []u64Rec
	for _, rec := range dv.All() {
		got = append(got, rec)
	}
	require.Equal(t, records, got)
}

func TestWriteDiskVectorEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, WriteDiskVector[u64Rec](path, nil))

	dv, err := OpenDiskVector[u64Rec](path)
	require.NoError(t, err)
	defer dv.Close()
	require.Equal(t, 0, dv.Len())
}
