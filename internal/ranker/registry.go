package ranker

import (
	"fmt"
	"sync"

	"github.com/hakonhall/metaindex/internal/metaerr"
)

// Factory builds a Scorer from named parameters (e.g. "k1", "b",
// "k3" for okapi_bm25), as read from a query-time config map.
type Factory func(params map[string]float64) (Scorer, error)

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{}
)

// Register adds a named scorer factory to the package-wide registry.
// Called from init() by every scorer in this package; an embedding
// application may also register its own.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds the named scorer, or ErrNotFound if no factory is
// registered under that name.
func New(name string, params map[string]float64) (Scorer, error) {
	registryMu.Lock()
	factory, ok := registry[name]
	registryMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: ranker %q", metaerr.ErrNotFound, name)
	}
	return factory(params)
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

func init() {
	Register("okapi_bm25", func(p map[string]float64) (Scorer, error) {
		return BM25{K1: param(p, "k1", 1.2), B: param(p, "b", 0.75), K3: param(p, "k3", 500)}, nil
	})
	Register("pivoted_length", func(p map[string]float64) (Scorer, error) {
		return PivotedLength{S: param(p, "s", 0.2)}, nil
	})
	Register("jelinek_mercer", func(p map[string]float64) (Scorer, error) {
		lambda := param(p, "lambda", 0.7)
		if lambda <= 0 || lambda >= 1 {
			return nil, fmt.Errorf("ranker: jelinek_mercer lambda must be in (0,1), got %v", lambda)
		}
		return JelinekMercer{Lambda: lambda}, nil
	})
	Register("dirichlet_prior", func(p map[string]float64) (Scorer, error) {
		return DirichletPrior{Mu: param(p, "mu", 2000)}, nil
	})
	Register("absolute_discount", func(p map[string]float64) (Scorer, error) {
		return AbsoluteDiscount{Delta: param(p, "delta", 0.7)}, nil
	})

	// Word-movers-distance ranking was left an Open Question by the
	// distilled spec; resolved (DESIGN.md) as a stubbed factory that
	// is never reached by the default build, rather than a silent
	// fallback to a different scorer.
	Register("wmd", func(p map[string]float64) (Scorer, error) {
		return nil, fmt.Errorf("%w: wmd ranker", metaerr.ErrNotFound)
	})
}
