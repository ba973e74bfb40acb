package corpus

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestLineCorpusSplitsLabelAndText(t *testing.T) {
	c := NewLineCorpus(strings.NewReader("sports\tthe cat won\npolitics\tthe vote passed\n"))

	doc, ok, err := c.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "doc-0", doc.Name)
	require.Equal(t, "sports", doc.Label)
	require.Equal(t, "the cat won", readAll(t, doc.Body))

	doc, ok, err = c.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "doc-1", doc.Name)
	require.Equal(t, "politics", doc.Label)
	require.Equal(t, "the vote passed", readAll(t, doc.Body))

	_, ok, err = c.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLineCorpusUntaggedLineIsUnlabeled(t *testing.T) {
	c := NewLineCorpus(strings.NewReader("just some text\n"))

	doc, ok, err := c.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "", doc.Label)
	require.Equal(t, "just some text", readAll(t, doc.Body))
}

func TestLineCorpusEmptyInput(t *testing.T) {
	c := NewLineCorpus(strings.NewReader(""))
	_, ok, err := c.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLineCorpusNumbersDocsSequentially(t *testing.T) {
	c := NewLineCorpus(strings.NewReader("a\nb\nc\n"))
	var names []string
	for {
		doc, ok, err := c.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, doc.Name)
	}
	require.Equal(t, []string{"doc-0", "doc-1", "doc-2"}, names)
}
