// Package analysis defines the narrow analyzer contract the index
// builder depends on: turning document text into a bag-of-terms
// feature map. Real tokenization, stemming, and stop-wording are
// external to this core per the Non-goals; WhitespaceAnalyzer exists
// only so the builder is runnable and testable end-to-end.
package analysis

import (
	"bufio"
	"io"
	"strings"
)

// Analyzer turns a document's body into a term -> occurrence-count
// feature map.
type Analyzer interface {
	Analyze(r io.Reader) (map[string]uint64, error)
}

// WhitespaceAnalyzer lowercases and splits on whitespace. It performs
// no stemming, stop-wording, or punctuation stripping; those remain
// the embedding application's responsibility.
type WhitespaceAnalyzer struct{}

// Analyze implements Analyzer.
func (WhitespaceAnalyzer) Analyze(r io.Reader) (map[string]uint64, error) {
	features := make(map[string]uint64)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		term := strings.ToLower(scanner.Text())
		if term == "" {
			continue
		}
		features[term]++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return features, nil
}
