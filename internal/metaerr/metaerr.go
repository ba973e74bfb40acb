// Package metaerr defines the error-kind taxonomy shared by every
// on-disk structure in the index core (spec §7).
package metaerr

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("%w: detail", KindX) and
// recover with errors.Is.
var (
	// ErrIO wraps any underlying read/write/open failure.
	ErrIO = errors.New("io error")

	// ErrBadFileSize reports a disk-vector file whose size is not a
	// multiple of the fixed record size.
	ErrBadFileSize = errors.New("bad file size")

	// ErrOutOfRange reports a bit-vector extract/select request past
	// the structure's bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrCorruption reports an on-disk invariant violation.
	ErrCorruption = errors.New("corruption")

	// ErrMphBuildFailure reports seed-search exhaustion while building
	// a minimal perfect hash; the caller may retry with a different
	// base seed or a higher target universe.
	ErrMphBuildFailure = errors.New("mph build failure")

	// ErrVocabularyCorruption reports a duplicate term id or a missing
	// inverse vocabulary entry.
	ErrVocabularyCorruption = errors.New("vocabulary corruption")

	// ErrNotFound is the rare "miss" that must propagate as an error
	// (e.g. an unregistered ranker name, or an out-of-vocabulary token
	// scored by a language model without <unk>); ordinary MPH-map
	// misses are reported as (zero, false), not as ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrCancelled reports a caller-requested abort at a cooperative
	// checkpoint.
	ErrCancelled = errors.New("cancelled")
)
