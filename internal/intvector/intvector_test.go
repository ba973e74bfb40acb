package intvector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetMatchesInputValues(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	values := make([]uint64, 300)
	for i := range values {
		values[i] = r.Uint64() >> uint(r.Intn(64))
	}

	iv, err := Build(values)
	require.NoError(t, err)
	require.Equal(t, len(values), iv.Len())

	for i, want := range values {
		got, err := iv.Get(i)
		require.NoError(t, err)
		require.Equalf(t, want, got, "get(%d)", i)
	}
}

func TestGetOutOfRange(t *testing.T) {
	iv, err := Build([]uint64{1, 2, 3})
	require.NoError(t, err)
	_, err = iv.Get(3)
	require.Error(t, err)
}

func TestBuildEmpty(t *testing.T) {
	iv, err := Build(nil)
	require.NoError(t, err)
	require.Equal(t, 0, iv.Len())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 2, 255, 256, 1 << 40, 0, 7}
	iv, err := Build(values)
	require.NoError(t, err)

	data := iv.Encode()
	decoded, n, err := DecodeIntVector(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, iv.Len(), decoded.Len())

	for i, want := range values {
		got, err := decoded.Get(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestZeroValuesStoreOneBit(t *testing.T) {
	iv, err := Build([]uint64{0, 0, 0})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		got, err := iv.Get(i)
		require.NoError(t, err)
		require.Equal(t, uint64(0), got)
	}
}
