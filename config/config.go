// Package config loads the nine options of spec.md §6 from an
// optional YAML file overlaid with METAINDEX_* environment variables,
// following the env-overrides-file layering pattern of the teacher
// pack's intelligencedev-manifold/internal/config/loader.go: defaults
// first, a YAML file merged on top when present, then per-field
// environment overrides, with validation only at the end.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hakonhall/metaindex/internal/indexbuild"
	"github.com/hakonhall/metaindex/internal/mph"
)

// Config binds the config keys consumed by the core (spec.md §6).
type Config struct {
	// Prefix is the root directory for all index artifacts.
	Prefix string `yaml:"prefix"`
	// Dataset names the on-disk index folder.
	Dataset string `yaml:"dataset"`
	// IndexName overrides the index folder name derived from Dataset.
	IndexName string `yaml:"index-name"`
	// Uninvert, if true, also builds the forward index.
	Uninvert bool `yaml:"uninvert"`
	// IndexerRAMBudget bounds the chunk buffer size in bytes.
	IndexerRAMBudget int64 `yaml:"indexer-ram-budget"`
	// IndexerMaxWriters bounds concurrent chunk writers.
	IndexerMaxWriters int `yaml:"indexer-max-writers"`
	// LoadFactor is the MPH load factor alpha.
	LoadFactor float64 `yaml:"load-factor"`
	// NumPerBucket is the MPH keys-per-bucket parameter.
	NumPerBucket int `yaml:"num-per-bucket"`
	// FingerprintBits is the MPH-map fingerprint width. The current
	// mph.HashedMap implementation hard-codes a 32-bit fingerprint
	// (internal/mph/hashedmap.go), so this is accepted and validated
	// but has no other effect yet; it is carried so a future
	// variable-width HashedMap has a config slot ready.
	FingerprintBits int `yaml:"fingerprint-bits"`
}

// Defaults returns the spec.md §6 default configuration.
func Defaults() Config {
	return Config{
		Prefix:            ".",
		Dataset:           "default",
		IndexName:         "",
		Uninvert:          false,
		IndexerRAMBudget:  1 << 30,
		IndexerMaxWriters: 4,
		LoadFactor:        0.99,
		NumPerBucket:      4,
		FingerprintBits:   32,
	}
}

// Load builds a Config starting from Defaults, merging yamlPath (if
// non-empty and present) on top, then applying any METAINDEX_*
// environment overrides, and finally validating the result.
func Load(yamlPath string) (Config, error) {
	cfg := Defaults()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", yamlPath, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", yamlPath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("METAINDEX_PREFIX")); v != "" {
		cfg.Prefix = v
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_DATASET")); v != "" {
		cfg.Dataset = v
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_INDEX_NAME")); v != "" {
		cfg.IndexName = v
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_UNINVERT")); v != "" {
		cfg.Uninvert = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_INDEXER_RAM_BUDGET")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.IndexerRAMBudget = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_INDEXER_MAX_WRITERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.IndexerMaxWriters = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_LOAD_FACTOR")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.LoadFactor = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_NUM_PER_BUCKET")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NumPerBucket = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("METAINDEX_FINGERPRINT_BITS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FingerprintBits = n
		}
	}
}

// isTruthy matches the teacher's EqualFold-based truthy check
// (loader.go treats "true"/"1"/"yes" case-insensitively as true).
func isTruthy(v string) bool {
	switch {
	case strings.EqualFold(v, "true"), strings.EqualFold(v, "1"), strings.EqualFold(v, "yes"):
		return true
	default:
		return false
	}
}

func (c Config) validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("config: prefix is required")
	}
	if c.Dataset == "" {
		return fmt.Errorf("config: dataset is required")
	}
	if c.IndexerRAMBudget <= 0 {
		return fmt.Errorf("config: indexer-ram-budget must be positive, got %d", c.IndexerRAMBudget)
	}
	if c.IndexerMaxWriters <= 0 {
		return fmt.Errorf("config: indexer-max-writers must be positive, got %d", c.IndexerMaxWriters)
	}
	if c.LoadFactor <= 0 || c.LoadFactor > 1 {
		return fmt.Errorf("config: load-factor must be in (0, 1], got %v", c.LoadFactor)
	}
	if c.NumPerBucket <= 0 {
		return fmt.Errorf("config: num-per-bucket must be positive, got %d", c.NumPerBucket)
	}
	if c.FingerprintBits <= 0 || c.FingerprintBits > 64 {
		return fmt.Errorf("config: fingerprint-bits must be in (0, 64], got %d", c.FingerprintBits)
	}
	return nil
}

// IndexDir resolves the on-disk index directory from Prefix, Dataset,
// and IndexName (IndexName wins over Dataset when set).
func (c Config) IndexDir() string {
	name := c.Dataset
	if c.IndexName != "" {
		name = c.IndexName
	}
	return c.Prefix + string(os.PathSeparator) + name
}

// BuildOptions projects the indexer-facing subset of Config into an
// indexbuild.Options.
func (c Config) BuildOptions() indexbuild.Options {
	return indexbuild.Options{
		RAMBudget:  c.IndexerRAMBudget,
		MaxWriters: c.IndexerMaxWriters,
		Uninvert:   c.Uninvert,
	}
}

// MPHOptions projects the MPH-facing subset of Config into an
// mph.Options.
func (c Config) MPHOptions() mph.Options {
	return mph.Options{
		LoadFactor:    c.LoadFactor,
		KeysPerBucket: c.NumPerBucket,
	}
}
