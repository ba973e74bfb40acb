package succinct

import (
	"math/rand"
	"testing"

	"github.com/hakonhall/metaindex/internal/bitvector"
	"github.com/stretchr/testify/require"
)

func ascendingPositions(r *rand.Rand, n, m int) []int {
	seen := make(map[int]bool, m)
	for len(seen) < m {
		seen[r.Intn(n)] = true
	}
	out := make([]int, 0, m)
	for p := range seen {
		out = append(out, p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func TestSArraySelectMatchesInputPositions(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const n = 10000
	positions := ascendingPositions(r, n, 500)

	sa, err := Build(n, positions)
	require.NoError(t, err)
	require.Equal(t, len(positions), sa.M())

	for k, want := range positions {
		got, err := sa.Select(k)
		require.NoError(t, err)
		require.Equalf(t, want, got, "select(%d)", k)
	}
}

func TestSArrayRankMatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const n = 2000
	positions := ascendingPositions(r, n, 200)

	sa, err := Build(n, positions)
	require.NoError(t, err)

	for i := 0; i <= n; i++ {
		want := 0
		for _, p := range positions {
			if p < i {
				want++
			}
		}
		got, err := sa.Rank(i)
		require.NoError(t, err)
		require.Equalf(t, want, got, "rank(%d)", i)
	}
}

func TestSArrayRejectsNonIncreasingPositions(t *testing.T) {
	_, err := Build(100, []int{5, 3})
	require.Error(t, err)
}

func TestSArrayEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	positions := ascendingPositions(r, 5000, 300)
	sa, err := Build(5000, positions)
	require.NoError(t, err)

	data := sa.Encode()
	decoded, n, err := DecodeSArray(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	for k, want := range positions {
		got, err := decoded.Select(k)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func buildBitView(t *testing.T, bits []bool) *bitvector.View {
	t.Helper()
	b := bitvector.NewBuilder()
	for _, bit := range bits {
		b.WriteBit(bit)
	}
	return b.Finish()
}

func TestDArraySelectOneMatchesPositions(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	const n = 50000
	bits := make([]bool, n)
	var ones []int
	for i := range bits {
		if r.Intn(5) == 0 {
			bits[i] = true
			ones = append(ones, i)
		}
	}
	view := buildBitView(t, bits)
	d := BuildDArray(view, true)
	require.Equal(t, len(ones), d.NumOnes())

	for k, want := range ones {
		got, err := d.Select(k)
		require.NoError(t, err)
		require.Equalf(t, want, got, "select-1(%d)", k)
	}
}

func TestDArraySelectZeroMatchesPositions(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	const n = 20000
	bits := make([]bool, n)
	var zeros []int
	for i := range bits {
		bits[i] = r.Intn(3) != 0
		if !bits[i] {
			zeros = append(zeros, i)
		}
	}
	view := buildBitView(t, bits)
	d := BuildDArray(view, false)
	require.Equal(t, len(zeros), d.NumOnes())

	for k, want := range zeros {
		got, err := d.Select(k)
		require.NoError(t, err)
		require.Equalf(t, want, got, "select-0(%d)", k)
	}
}

func TestDArraySelectOutOfRange(t *testing.T) {
	view := buildBitView(t, []bool{true, false, true})
	d := BuildDArray(view, true)
	_, err := d.Select(d.NumOnes())
	require.Error(t, err)
}
