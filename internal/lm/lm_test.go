package lm

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testARPA = "\\data\\\n" +
	"ngram 1=5\n" +
	"ngram 2=3\n" +
	"ngram 3=1\n" +
	"\n" +
	"\\1-grams:\n" +
	"-1.0\tthe\t-0.05\n" +
	"-2.0\tcat\t-0.1\n" +
	"-2.5\tsat\t-0.2\n" +
	"-3.0\tdown\t-0.1\n" +
	"-4.0\t<unk>\t0.0\n" +
	"\n" +
	"\\2-grams:\n" +
	"-0.5\tthe cat\t-0.05\n" +
	"-0.7\tcat sat\t-0.1\n" +
	"-0.6\tsat down\t-0.05\n" +
	"\n" +
	"\\3-grams:\n" +
	"-0.2\tthe cat sat\n" +
	"\n" +
	"\\end\\\n"

func buildTestModel(t *testing.T) *Model {
	t.Helper()
	model, err := Build(strings.NewReader(testARPA))
	require.NoError(t, err)
	require.Equal(t, 3, model.Order())
	return model
}

// TestScoreSentenceMatchesBackoffArithmetic walks "the cat sat down"
// token by token and checks the running sum against a hand-derived
// back-off computation: the third token hits the 3-gram directly,
// and the fourth misses the 3-gram, backs off through "cat sat"'s
// stored back-off weight, then matches the "sat down" bigram.
func TestScoreSentenceMatchesBackoffArithmetic(t *testing.T) {
	model := buildTestModel(t)

	var state []uint32
	var total float64

	logp, state, err := model.Score(state, "the")
	require.NoError(t, err)
	require.InDelta(t, -1.0, logp, 1e-4)
	total += logp

	logp, state, err = model.Score(state, "cat")
	require.NoError(t, err)
	require.InDelta(t, -0.5, logp, 1e-4)
	total += logp

	logp, state, err = model.Score(state, "sat")
	require.NoError(t, err)
	require.InDelta(t, -0.2, logp, 1e-4)
	total += logp

	logp, state, err = model.Score(state, "down")
	require.NoError(t, err)
	require.InDelta(t, -0.7, logp, 1e-4) // -0.6 (sat down) + -0.1 (cat sat back-off)
	total += logp

	require.InDelta(t, -2.4, total, 1e-4)
	require.Len(t, state, 2)
}

func TestScoreUnknownTokenUsesUnk(t *testing.T) {
	model := buildTestModel(t)

	logp, state, err := model.Score(nil, "zzz-not-a-word")
	require.NoError(t, err)
	require.InDelta(t, -4.0, logp, 1e-4)
	require.Len(t, state, 1)
}

func TestResolveTokenFound(t *testing.T) {
	model := buildTestModel(t)

	id, found, err := model.ResolveToken("cat")
	require.NoError(t, err)
	require.True(t, found)

	id2, found2, err := model.ResolveToken("cat")
	require.NoError(t, err)
	require.True(t, found2)
	require.Equal(t, id, id2)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	model := buildTestModel(t)
	dir := filepath.Join(t.TempDir(), "lm")
	require.NoError(t, model.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, model.Order(), loaded.Order())

	var state []uint32
	for _, tok := range []string{"the", "cat", "sat", "down"} {
		origLogp, origState, err := model.Score(state, tok)
		require.NoError(t, err)
		loadedLogp, loadedState, err := loaded.Score(state, tok)
		require.NoError(t, err)
		require.InDelta(t, origLogp, loadedLogp, 1e-6)
		require.Equal(t, origState, loadedState)
		state = origState
	}
}
