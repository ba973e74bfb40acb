package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// LineCorpus reads one document per line of a text file, formatted
// as "label<TAB>text". A missing tab treats the whole line as
// unlabeled text. Lines are numbered from 0 to produce document
// names ("doc-0", "doc-1", ...).
type LineCorpus struct {
	scanner *bufio.Scanner
	lineNum int
}

// NewLineCorpus wraps r as a LineCorpus.
func NewLineCorpus(r io.Reader) *LineCorpus {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &LineCorpus{scanner: scanner}
}

// Next implements Reader.
func (c *LineCorpus) Next() (Document, bool, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Document{}, false, fmt.Errorf("%w: read line corpus: %v", metaerr.ErrIO, err)
		}
		return Document{}, false, nil
	}
	line := c.scanner.Text()
	name := fmt.Sprintf("doc-%d", c.lineNum)
	c.lineNum++

	label := ""
	text := line
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		label = line[:i]
		text = line[i+1:]
	}
	return Document{Name: name, Body: strings.NewReader(text), Label: label}, true, nil
}
