package postings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hakonhall/metaindex/internal/ids"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	entries := []Entry{
		{Doc: 1, Count: 3},
		{Doc: 4, Count: 1},
		{Doc: 5, Count: 7},
		{Doc: 100, Count: 2},
	}
	buf, err := Encode(entries)
	require.NoError(t, err)

	s, err := NewStream(buf)
	require.NoError(t, err)
	require.EqualValues(t, len(entries), s.DocFreq())
	require.EqualValues(t, 13, s.CorpusCount())

	for _, want := range entries {
		doc, count, ok, err := s.Next()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want.Doc, doc)
		require.Equal(t, want.Count, count)
	}
	_, _, ok, err := s.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCursorSaveRestore(t *testing.T) {
	entries := []Entry{{Doc: 2, Count: 1}, {Doc: 9, Count: 4}, {Doc: 20, Count: 9}}
	buf, err := Encode(entries)
	require.NoError(t, err)

	s, err := NewStream(buf)
	require.NoError(t, err)

	_, _, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)

	mark := s.Cursor()

	doc2, _, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ids.DocID(9), doc2)

	s.Restore(mark)
	doc2Again, _, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ids.DocID(9), doc2Again)
}

func TestRejectsNonIncreasingDocIDs(t *testing.T) {
	_, err := Encode([]Entry{{Doc: 5, Count: 1}, {Doc: 5, Count: 1}})
	require.Error(t, err)
}

func TestEmptyPostingsList(t *testing.T) {
	buf, err := Encode(nil)
	require.NoError(t, err)
	s, err := NewStream(buf)
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
	_, _, ok, err := s.Next()
	require.NoError(t, err)
	require.False(t, ok)
}
