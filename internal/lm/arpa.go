package lm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// arpaEntry is one parsed line from an order's section: the n-gram's
// words (length == the section's order), its log10 probability, and
// its log10 back-off weight (zero if the line omitted one, as the
// top order always does).
type arpaEntry struct {
	Words   []string
	LogProb float64
	Backoff float64
}

// arpaModel is the fully parsed contents of an ARPA-format n-gram
// file (spec §4.I "build input: an ARPA-format stream with per-order
// counts"), grouped by order, order 1 first.
type arpaModel struct {
	Order   int
	Entries [][]arpaEntry // Entries[k-1] holds the order-k entries
}

// parseARPA reads the standard ARPA n-gram LM text format:
//
//	\data\
//	ngram 1=<count>
//	ngram 2=<count>
//	...
//	\1-grams:
//	<logprob> <word> [<logbackoff>]
//	...
//	\2-grams:
//	<logprob> <w1> <w2> [<logbackoff>]
//	...
//	\end\
//
// Probabilities and back-offs are carried through unchanged (log10,
// matching the on-disk convention of the reference toolkits); callers
// needing natural-log scores convert at lookup time.
func parseARPA(r io.Reader) (*arpaModel, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var counts []int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `\data\` {
			continue
		}
		if strings.HasPrefix(line, "ngram ") {
			parts := strings.SplitN(line[len("ngram "):], "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("%w: malformed ngram count line %q", metaerr.ErrCorruption, line)
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("%w: malformed ngram count line %q: %v", metaerr.ErrCorruption, line, err)
			}
			counts = append(counts, n)
			continue
		}
		if strings.HasPrefix(line, `\`) && strings.HasSuffix(line, "-grams:") {
			break
		}
		if line == "" {
			continue
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: ARPA stream has no \\data\\ section", metaerr.ErrCorruption)
	}

	order := len(counts)
	model := &arpaModel{Order: order, Entries: make([][]arpaEntry, order)}
	for k := 1; k <= order; k++ {
		model.Entries[k-1] = make([]arpaEntry, 0, counts[k-1])
	}

	curOrder := 0
	line := strings.TrimSpace(scanner.Text())
	for {
		if line != "" && strings.HasPrefix(line, `\`) {
			if line == `\end\` {
				break
			}
			var n int
			if _, err := fmt.Sscanf(line, "\\%d-grams:", &n); err == nil {
				curOrder = n
			}
		} else if line != "" {
			entry, err := parseARPALine(line, curOrder, order)
			if err != nil {
				return nil, err
			}
			model.Entries[curOrder-1] = append(model.Entries[curOrder-1], entry)
		}
		if !scanner.Scan() {
			break
		}
		line = strings.TrimSpace(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading ARPA stream: %v", metaerr.ErrIO, err)
	}
	return model, nil
}

func parseARPALine(line string, curOrder, topOrder int) (arpaEntry, error) {
	fields := strings.Fields(line)
	minFields := 1 + curOrder
	if curOrder == 0 || len(fields) < minFields {
		return arpaEntry{}, fmt.Errorf("%w: malformed %d-gram line %q", metaerr.ErrCorruption, curOrder, line)
	}
	logProb, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return arpaEntry{}, fmt.Errorf("%w: bad log-prob in %q: %v", metaerr.ErrCorruption, line, err)
	}
	words := append([]string(nil), fields[1:1+curOrder]...)
	var backoff float64
	if len(fields) > minFields {
		backoff, err = strconv.ParseFloat(fields[minFields], 64)
		if err != nil {
			return arpaEntry{}, fmt.Errorf("%w: bad back-off in %q: %v", metaerr.ErrCorruption, line, err)
		}
	}
	return arpaEntry{Words: words, LogProb: logProb, Backoff: backoff}, nil
}
