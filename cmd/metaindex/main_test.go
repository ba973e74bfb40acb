package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "metaindex.yaml")
	body := "prefix: " + dir + "\ndataset: idx\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeCorpus(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "corpus.txt")
	body := "cat\tthe cat sat on the mat\n" +
		"dog\tthe dog sat on the log\n" +
		"both\tthe cat and the dog sat together\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunNoArgsIsMisuse(t *testing.T) {
	require.Equal(t, 1, run(nil))
}

func TestRunUnknownCommandIsMisuse(t *testing.T) {
	require.Equal(t, 1, run([]string{"frobnicate"}))
}

func TestRunBuildQueryCheckEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	corpusPath := writeCorpus(t, dir)

	code := run([]string{"build", "-config", cfgPath, "-corpus", corpusPath})
	require.Equal(t, 0, code)

	code = run([]string{"check", "-config", cfgPath})
	require.Equal(t, 0, code)

	code = run([]string{"query", "-config", cfgPath, "-k", "2", "cat"})
	require.Equal(t, 0, code)
}

func TestRunBuildMissingCorpusFlagIsMisuse(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	require.Equal(t, 1, run([]string{"build", "-config", cfgPath}))
}

func TestRunQueryMissingTermsIsMisuse(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	require.Equal(t, 1, run([]string{"query", "-config", cfgPath}))
}

func TestRunCheckMissingIndexIsIOFailure(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	require.Equal(t, 2, run([]string{"check", "-config", cfgPath}))
}
