package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWhitespaceAnalyzerCountsAndLowercases(t *testing.T) {
	features, err := WhitespaceAnalyzer{}.Analyze(strings.NewReader("The Cat sat on the MAT"))
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{
		"the": 2,
		"cat": 1,
		"sat": 1,
		"on":  1,
		"mat": 1,
	}, features)
}

func TestWhitespaceAnalyzerEmptyInput(t *testing.T) {
	features, err := WhitespaceAnalyzer{}.Analyze(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, features)
}

func TestWhitespaceAnalyzerCollapsesRepeatedWhitespace(t *testing.T) {
	features, err := WhitespaceAnalyzer{}.Analyze(strings.NewReader("a\t\ta\n\na  a"))
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{"a": 4}, features)
}
