package mph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func keysOf(strs ...string) [][]byte {
	out := make([][]byte, len(strs))
	for i, s := range strs {
		out[i] = []byte(s)
	}
	return out
}

func TestMPHBijection(t *testing.T) {
	keys := keysOf("alpha", "beta", "gamma", "delta", "epsilon")
	m, err := Build(keys, Options{LoadFactor: 0.95, KeysPerBucket: 4})
	require.NoError(t, err)
	require.Equal(t, len(keys), m.N())

	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		idx, err := m.Lookup(k)
		require.NoError(t, err)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(keys))
		require.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
	}
	require.Len(t, seen, len(keys))

	unknown, err := m.Lookup([]byte("zeta"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, unknown, 0)
	require.Less(t, unknown, len(keys))
}

func TestMPHSingleton(t *testing.T) {
	m, err := Build(keysOf("only"), DefaultOptions())
	require.NoError(t, err)
	idx, err := m.Lookup([]byte("only"))
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestMPHLargerKeySet(t *testing.T) {
	var keys [][]byte
	for i := 0; i < 2000; i++ {
		keys = append(keys, []byte(fmt.Sprintf("term-%d", i)))
	}
	m, err := Build(keys, DefaultOptions())
	require.NoError(t, err)

	seen := make([]bool, m.N())
	for _, k := range keys {
		idx, err := m.Lookup(k)
		require.NoError(t, err)
		require.False(t, seen[idx])
		seen[idx] = true
	}
	for _, wasSeen := range seen {
		require.True(t, wasSeen)
	}
}

func TestMPHSaveLoadRoundTrip(t *testing.T) {
	keys := keysOf("red", "green", "blue", "yellow", "purple", "orange")
	m, err := Build(keys, DefaultOptions())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, m.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, m.N(), loaded.N())

	for _, k := range keys {
		want, err := m.Lookup(k)
		require.NoError(t, err)
		got, err := loaded.Lookup(k)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
