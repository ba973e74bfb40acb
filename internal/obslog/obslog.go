// Package obslog configures the process-wide structured logger
// (spec §5 "the only process-wide state is the global logging sink"),
// grounded on the teacher pack's zerolog setup
// (intelligencedev-manifold/internal/observability/logging.go).
package obslog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. If logPath is non-empty,
// logs are written only to that file (append mode) so they don't
// interleave with a CLI's own stdout output; on open failure it falls
// back to stdout and reports the failure to stderr.
func Init(logPath string, level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if logPath != "" {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		} else {
			fmt.Fprintf(os.Stderr, "obslog: failed to open log file %q: %v\n", logPath, err)
		}
	}
	log.Logger = log.Output(w).With().Timestamp().Logger()

	lvl := zerolog.InfoLevel
	if level = strings.ToLower(strings.TrimSpace(level)); level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)
}

// Logger returns the process-wide logger, for components that need a
// *zerolog.Logger value rather than the package-level helpers.
func Logger() *zerolog.Logger {
	return &log.Logger
}
