package indexbuild

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hakonhall/metaindex/analysis"
	"github.com/hakonhall/metaindex/corpus"
	"github.com/hakonhall/metaindex/internal/ids"
)

func buildSmallIndex(t *testing.T) *Index {
	t.Helper()
	text := "cat\tthe cat sat on the mat\n" +
		"dog\tthe dog sat on the log\n" +
		"both\tthe cat and the dog sat\n"
	reader := corpus.NewLineCorpus(strings.NewReader(text))

	dir := filepath.Join(t.TempDir(), "idx")
	idx, err := Build(context.Background(), dir, reader, analysis.WhitespaceAnalyzer{}, DefaultOptions())
	require.NoError(t, err)
	return idx
}

func TestBuildEndToEnd(t *testing.T) {
	idx := buildSmallIndex(t)
	defer idx.Close()

	require.Equal(t, 3, idx.NumDocs())
	require.Greater(t, idx.NumTerms(), 0)

	theID, found, err := idx.TermID("the")
	require.NoError(t, err)
	require.True(t, found)

	stream, err := idx.PostingsStream(theID)
	require.NoError(t, err)
	require.EqualValues(t, 3, stream.DocFreq())

	seen := map[ids.DocID]uint64{}
	for {
		doc, count, ok, err := stream.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		seen[doc] = count
	}
	require.Len(t, seen, 3)

	_, found, err = idx.TermID("nonexistent-zzz")
	require.NoError(t, err)
	require.False(t, found)
}

func TestBuildInvariants(t *testing.T) {
	idx := buildSmallIndex(t)
	defer idx.Close()
	require.NoError(t, VerifyInvariants(idx))
}

// buildScenarioCorpus builds the 3-document corpus ["a b b c", "b c c",
// "a"] used by the named end-to-end scenarios: assert V=3; df(a)=2,
// df(b)=2, df(c)=2; cf(a)=2, cf(b)=3, cf(c)=3; doc sizes [4, 3, 1];
// unique-term counts [3, 2, 1].
func buildScenarioCorpus(t *testing.T) *Index {
	t.Helper()
	text := "d0\ta b b c\n" +
		"d1\tb c c\n" +
		"d2\ta\n"
	reader := corpus.NewLineCorpus(strings.NewReader(text))

	dir := filepath.Join(t.TempDir(), "idx")
	idx, err := Build(context.Background(), dir, reader, analysis.WhitespaceAnalyzer{}, DefaultOptions())
	require.NoError(t, err)
	return idx
}

func TestBuildScenarioCorpusStatistics(t *testing.T) {
	idx := buildScenarioCorpus(t)
	defer idx.Close()

	require.Equal(t, 3, idx.NumDocs())
	require.Equal(t, 3, idx.NumTerms())

	aID, found, err := idx.TermID("a")
	require.NoError(t, err)
	require.True(t, found)
	bID, found, err := idx.TermID("b")
	require.NoError(t, err)
	require.True(t, found)
	cID, found, err := idx.TermID("c")
	require.NoError(t, err)
	require.True(t, found)

	df, err := idx.DocFreq(aID)
	require.NoError(t, err)
	require.EqualValues(t, 2, df)
	df, err = idx.DocFreq(bID)
	require.NoError(t, err)
	require.EqualValues(t, 2, df)
	df, err = idx.DocFreq(cID)
	require.NoError(t, err)
	require.EqualValues(t, 2, df)

	cf, err := idx.CorpusTermCount(aID)
	require.NoError(t, err)
	require.EqualValues(t, 2, cf)
	cf, err = idx.CorpusTermCount(bID)
	require.NoError(t, err)
	require.EqualValues(t, 3, cf)
	cf, err = idx.CorpusTermCount(cID)
	require.NoError(t, err)
	require.EqualValues(t, 3, cf)

	wantSizes := []uint64{4, 3, 1}
	wantUnique := []uint64{3, 2, 1}
	for d := 0; d < 3; d++ {
		length, err := idx.DocLength(ids.DocID(d))
		require.NoError(t, err)
		require.EqualValuesf(t, wantSizes[d], length, "doc %d length", d)

		unique, err := idx.DocUniqueTerms(ids.DocID(d))
		require.NoError(t, err)
		require.EqualValuesf(t, wantUnique[d], unique, "doc %d unique terms", d)
	}
}

func TestBuildDocMetadata(t *testing.T) {
	idx := buildSmallIndex(t)
	defer idx.Close()

	name, err := idx.DocName(0)
	require.NoError(t, err)
	require.Equal(t, "doc-0", name)

	length, err := idx.DocLength(0)
	require.NoError(t, err)
	require.EqualValues(t, 6, length) // "the cat sat on the mat"

	labelID, err := idx.DocLabel(0)
	require.NoError(t, err)
	labelName, err := idx.LabelName(labelID)
	require.NoError(t, err)
	require.Equal(t, "cat", labelName)
}
