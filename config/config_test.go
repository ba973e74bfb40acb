package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"METAINDEX_PREFIX", "METAINDEX_DATASET", "METAINDEX_INDEX_NAME",
		"METAINDEX_UNINVERT", "METAINDEX_INDEXER_RAM_BUDGET",
		"METAINDEX_INDEXER_MAX_WRITERS", "METAINDEX_LOAD_FACTOR",
		"METAINDEX_NUM_PER_BUCKET", "METAINDEX_FINGERPRINT_BITS",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWithNoFileOrEnv(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "metaindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: mycorpus\nuninvert: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mycorpus", cfg.Dataset)
	require.True(t, cfg.Uninvert)
	require.Equal(t, Defaults().IndexerRAMBudget, cfg.IndexerRAMBudget)
}

func TestEnvOverridesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: fromyaml\n"), 0o644))

	clearEnv(t)
	t.Setenv("METAINDEX_DATASET", "fromenv")
	t.Setenv("METAINDEX_INDEXER_MAX_WRITERS", "16")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "fromenv", cfg.Dataset)
	require.Equal(t, 16, cfg.IndexerMaxWriters)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoadRejectsInvalidLoadFactor(t *testing.T) {
	clearEnv(t)
	t.Setenv("METAINDEX_LOAD_FACTOR", "1.5")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadRejectsEmptyPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: \"\"\n"), 0o644))
	clearEnv(t)
	_, err := Load(path)
	require.Error(t, err)
}

func TestIndexDirPrefersIndexName(t *testing.T) {
	cfg := Defaults()
	cfg.Prefix = "/data"
	cfg.Dataset = "news"
	require.Equal(t, "/data/news", cfg.IndexDir())

	cfg.IndexName = "custom"
	require.Equal(t, "/data/custom", cfg.IndexDir())
}

func TestTruthyUninvertVariants(t *testing.T) {
	clearEnv(t)
	for _, v := range []string{"true", "TRUE", "1", "yes"} {
		t.Setenv("METAINDEX_UNINVERT", v)
		cfg, err := Load("")
		require.NoError(t, err)
		require.Truef(t, cfg.Uninvert, "expected %q to be truthy", v)
	}
}

func TestBuildOptionsAndMPHOptionsProjection(t *testing.T) {
	cfg := Defaults()
	cfg.IndexerRAMBudget = 2048
	cfg.IndexerMaxWriters = 8
	cfg.Uninvert = true
	cfg.LoadFactor = 0.9
	cfg.NumPerBucket = 6

	bo := cfg.BuildOptions()
	require.Equal(t, int64(2048), bo.RAMBudget)
	require.Equal(t, 8, bo.MaxWriters)
	require.True(t, bo.Uninvert)

	mo := cfg.MPHOptions()
	require.Equal(t, 0.9, mo.LoadFactor)
	require.Equal(t, 6, mo.KeysPerBucket)
}
