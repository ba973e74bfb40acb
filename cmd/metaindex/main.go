// Command metaindex is the CLI front-end over the index core:
// build, query, and check subcommands, following the teacher's
// cmd/cindex flag-parsing and usage-message idiom (cmd/cindex/cindex.go),
// generalized from a single-verb tool to three subcommands with the
// exit codes of spec.md §6 (0 success, 1 misuse, 2 I/O failure, 3
// corruption detected at open).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hakonhall/metaindex/analysis"
	"github.com/hakonhall/metaindex/config"
	"github.com/hakonhall/metaindex/corpus"
	"github.com/hakonhall/metaindex/internal/indexbuild"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/obslog"
	"github.com/hakonhall/metaindex/internal/ranker"
)

const usageMessage = `usage: metaindex <command> [flags]

Commands:
	build   build an inverted (and optionally forward) index from a corpus
	query   run a ranked query against an existing index
	check   verify an index's on-disk invariants

Run 'metaindex <command> -h' for flags specific to each command.
`

func usage() {
	fmt.Fprint(os.Stderr, usageMessage)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "build":
		return runBuild(rest)
	case "query":
		return runQuery(rest)
	case "check":
		return runCheck(rest)
	case "-h", "-help", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "metaindex: unknown command %q\n", cmd)
		usage()
		return 1
	}
}

// exitForErr maps an error from the index core onto spec.md §6's
// exit codes: corruption detected at open is 3, any other I/O or
// build failure is 2.
func exitForErr(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, metaerr.ErrCorruption) || errors.Is(err, metaerr.ErrVocabularyCorruption) {
		return 3
	}
	return 2
}

func loadConfig(configPath string) (config.Config, int) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: %v\n", err)
		return config.Config{}, 1
	}
	return cfg, 0
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a METAINDEX_* YAML config file")
	corpusPath := fs.String("corpus", "", "path to a line-corpus file (label<TAB>text per line)")
	logPath := fs.String("log", "", "log file path (defaults to stdout)")
	logLevel := fs.String("log-level", "info", "zerolog level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *corpusPath == "" {
		fmt.Fprintln(os.Stderr, "metaindex build: -corpus is required")
		return 1
	}
	obslog.Init(*logPath, *logLevel)
	log := obslog.Logger()

	cfg, code := loadConfig(*configPath)
	if code != 0 {
		return code
	}

	f, err := os.Open(*corpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: %v\n", err)
		return 2
	}
	defer f.Close()

	dir := cfg.IndexDir()
	log.Info().Str("dir", dir).Str("corpus", *corpusPath).Msg("build starting")

	reader := corpus.NewLineCorpus(f)
	_, err = indexbuild.Build(context.Background(), dir, reader, analysis.WhitespaceAnalyzer{}, cfg.BuildOptions())
	if err != nil {
		log.Error().Err(err).Msg("build failed")
		fmt.Fprintf(os.Stderr, "metaindex: build: %v\n", err)
		return exitForErr(err)
	}
	log.Info().Str("dir", dir).Msg("build complete")
	return 0
}

func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a METAINDEX_* YAML config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	cfg, code := loadConfig(*configPath)
	if code != 0 {
		return code
	}

	idx, err := indexbuild.Open(cfg.IndexDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: check: %v\n", err)
		return exitForErr(err)
	}
	defer idx.Close()

	if err := indexbuild.VerifyInvariants(idx); err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: check: %v\n", err)
		return exitForErr(err)
	}
	fmt.Println("ok")
	return 0
}

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a METAINDEX_* YAML config file")
	scorerName := fs.String("scorer", "okapi_bm25", "registered ranker name")
	topK := fs.Int("k", 10, "number of results to return")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	terms := fs.Args()
	if len(terms) == 0 {
		fmt.Fprintln(os.Stderr, "metaindex query: at least one query term is required")
		return 1
	}

	cfg, code := loadConfig(*configPath)
	if code != 0 {
		return code
	}

	idx, err := indexbuild.Open(cfg.IndexDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: query: %v\n", err)
		return exitForErr(err)
	}
	defer idx.Close()

	scorer, err := ranker.New(*scorerName, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: query: %v\n", err)
		return 1
	}

	query := make([]ranker.QueryTerm, len(terms))
	for i, t := range terms {
		query[i] = ranker.QueryTerm{Term: t, Weight: 1}
	}

	results, err := ranker.Rank(context.Background(), idx, query, scorer, *topK, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "metaindex: query: %v\n", err)
		return exitForErr(err)
	}

	for _, r := range results {
		name, err := idx.DocName(r.Doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "metaindex: query: %v\n", err)
			return exitForErr(err)
		}
		fmt.Printf("%f\t%s\n", r.Score, name)
	}
	return 0
}
