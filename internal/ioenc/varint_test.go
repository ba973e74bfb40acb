package ioenc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 256, 1 << 20, math.MaxUint64}
	for _, v := range values {
		buf := PutUvarint(nil, v)
		got, n := Uvarint(buf)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, -127, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		buf := PutVarint(nil, v)
		got, n := Varint(buf)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestUvarintTruncatedReturnsNonPositive(t *testing.T) {
	buf := PutUvarint(nil, uint64(1)<<40)
	_, n := Uvarint(buf[:len(buf)-1])
	require.LessOrEqual(t, n, 0)
}

func TestPutStringRoundTrip(t *testing.T) {
	buf := PutString(nil, "hello, world")
	s, n, ok := String(buf)
	require.True(t, ok)
	require.Equal(t, len(buf), n)
	require.Equal(t, "hello, world", s)
}

func TestStringTruncatedIsNotOK(t *testing.T) {
	buf := PutString(nil, "hello")
	_, _, ok := String(buf[:len(buf)-1])
	require.False(t, ok)
}

func TestUvarintAppendsAfterExistingPrefix(t *testing.T) {
	buf := []byte{0xAA, 0xBB}
	buf = PutUvarint(buf, 300)
	require.Equal(t, byte(0xAA), buf[0])
	require.Equal(t, byte(0xBB), buf[1])
	got, n := Uvarint(buf[2:])
	require.Equal(t, uint64(300), got)
	require.Equal(t, len(buf)-2, n)
}
