package obslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	Init(path, "debug")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Logger().Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
}

func TestInitDefaultsToInfoLevel(t *testing.T) {
	Init("", "")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	Init("", "not-a-level")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
