package lm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseARPACounts(t *testing.T) {
	model, err := parseARPA(strings.NewReader(testARPA))
	require.NoError(t, err)
	require.Equal(t, 3, model.Order)
	require.Len(t, model.Entries[0], 5)
	require.Len(t, model.Entries[1], 3)
	require.Len(t, model.Entries[2], 1)
}

func TestParseARPAMissingDataSection(t *testing.T) {
	_, err := parseARPA(strings.NewReader("\\1-grams:\n-1.0 foo\n\\end\\\n"))
	require.Error(t, err)
}

func TestParseARPAMalformedNgramLine(t *testing.T) {
	bad := "\\data\\\nngram 1=not-a-number\n\\1-grams:\n\\end\\\n"
	_, err := parseARPA(strings.NewReader(bad))
	require.Error(t, err)
}

func TestBuildRejectsUndeclaredWord(t *testing.T) {
	bad := "\\data\\\n" +
		"ngram 1=1\n" +
		"ngram 2=1\n" +
		"\n\\1-grams:\n" +
		"-1.0\tthe\t0.0\n" +
		"\n\\2-grams:\n" +
		"-0.5\tthe ghost\n" +
		"\n\\end\\\n"
	_, err := Build(strings.NewReader(bad))
	require.Error(t, err)
}
