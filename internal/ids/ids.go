// Package ids defines the distinct identifier types shared across
// the index core, so a doc id and a term id can never be passed to
// each other's slot by accident.
package ids

// DocID identifies a document within a corpus, dense in [0, N).
type DocID uint64

// TermID identifies a vocabulary term, dense in [0, V).
type TermID uint64

// LabelID identifies a classification label, dense in [0, L).
type LabelID uint32
