package mph

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hakonhall/metaindex/internal/intvector"
	"github.com/hakonhall/metaindex/internal/metaerr"
	"github.com/hakonhall/metaindex/internal/succinct"
)

// Options tunes the hash-displace-compress build, per spec §6's
// load-factor and num-per-bucket config keys.
type Options struct {
	LoadFactor    float64 // alpha, target fill of the universe, default 0.99
	KeysPerBucket int     // default 4
}

// DefaultOptions returns the spec-documented defaults.
func DefaultOptions() Options {
	return Options{LoadFactor: 0.99, KeysPerBucket: 4}
}

func (o Options) normalize() Options {
	if o.LoadFactor <= 0 || o.LoadFactor > 1 {
		o.LoadFactor = 0.99
	}
	if o.KeysPerBucket <= 0 {
		o.KeysPerBucket = 4
	}
	return o
}

// maxSeedAttempts bounds the per-bucket seed search before the whole
// build is retried under a new base seed.
const maxSeedAttempts = 1 << 20

// maxBaseSeedRetries bounds the number of base-seed restarts before
// the build is declared a fatal failure, per spec §4.E.
const maxBaseSeedRetries = 8

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

type bucket struct {
	id   int
	keys []int // indices into the original key slice
	h0   []uint64
}

// Build constructs a minimal perfect hash over keys using the
// hash-displace-compress algorithm of spec §4.E: bucket by H0 mod B,
// process buckets in descending-size order, search per-bucket seeds
// against a shared occupancy bit-vector, then compress the occupancy
// gaps into a rank structure so lookups land densely in [0, N).
func Build(keys [][]byte, opts Options) (*MPH, error) {
	opts = opts.normalize()
	n := len(keys)
	if n == 0 {
		return &MPH{n: 0, b: 1, t: 0, seeds: nil, empty: nil}, nil
	}

	b := ceilDiv(n, opts.KeysPerBucket)
	t := int(float64(n) / opts.LoadFactor)
	if t < n {
		t = n
	}

	var lastErr error
	for attempt := 0; attempt < maxBaseSeedRetries; attempt++ {
		baseSeed := uint64(0x9e3779b97f4a7c15) + uint64(attempt)*0xbf58476d1ce4e5b9
		m, err := buildOnce(keys, b, t, baseSeed)
		if err == nil {
			return m, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: exhausted %d base-seed retries: %v", metaerr.ErrMphBuildFailure, maxBaseSeedRetries, lastErr)
}

func buildOnce(keys [][]byte, b, t int, baseSeed uint64) (*MPH, error) {
	n := len(keys)
	buckets := make([]bucket, b)
	for i := range buckets {
		buckets[i].id = i
	}
	for ki, key := range keys {
		h := h0(key, baseSeed)
		bi := int(h % uint64(b))
		buckets[bi].keys = append(buckets[bi].keys, ki)
		buckets[bi].h0 = append(buckets[bi].h0, h)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return len(buckets[i].keys) > len(buckets[j].keys)
	})

	occupied := make([]bool, t)
	var mu sync.Mutex
	seeds := make([]uint64, b)

	// Buckets of equal size carry no ordering dependency on each
	// other (only larger buckets must be placed before smaller
	// ones), so within a size-class the seed search runs in
	// parallel, each bucket racing to claim slots under the shared
	// occupancy mutex, per spec §6's concurrency note.
	i := 0
	for i < len(buckets) {
		j := i
		for j < len(buckets) && len(buckets[j].keys) == len(buckets[i].keys) {
			j++
		}
		group := buckets[i:j]
		var g errgroup.Group
		for _, bk := range group {
			bk := bk
			g.Go(func() error {
				s, positions, err := searchSeed(bk, t, &mu, occupied)
				if err != nil {
					return err
				}
				seeds[bk.id] = s
				_ = positions
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		i = j
	}

	var emptyPositions []int
	for p := 0; p < t; p++ {
		if !occupied[p] {
			emptyPositions = append(emptyPositions, p)
		}
	}

	seedsVec, err := intvector.Build(seeds)
	if err != nil {
		return nil, fmt.Errorf("mph: build seeds vector: %w", err)
	}
	emptySArray, err := succinct.Build(t, emptyPositions)
	if err != nil {
		return nil, fmt.Errorf("mph: build empty-slot sarray: %w", err)
	}

	return &MPH{
		n:        n,
		b:        b,
		t:        t,
		baseSeed: baseSeed,
		seeds:    seedsVec,
		empty:    emptySArray,
	}, nil
}

// searchSeed finds the smallest seed s for which every key in bk maps
// to a distinct, unoccupied slot under h1(h0, s) mod t, then claims
// those slots. Empty buckets trivially succeed with seed 0.
func searchSeed(bk bucket, t int, mu *sync.Mutex, occupied []bool) (uint64, []int, error) {
	if len(bk.keys) == 0 {
		return 0, nil, nil
	}
	positions := make([]int, len(bk.h0))
	for s := uint64(0); s < maxSeedAttempts; s++ {
		seen := make(map[int]struct{}, len(bk.h0))
		ok := true
		for idx, h := range bk.h0 {
			p := int(h1(h, s) % uint64(t))
			if _, dup := seen[p]; dup {
				ok = false
				break
			}
			seen[p] = struct{}{}
			positions[idx] = p
		}
		if !ok {
			continue
		}

		mu.Lock()
		collides := false
		for _, p := range positions {
			if occupied[p] {
				collides = true
				break
			}
		}
		if !collides {
			for _, p := range positions {
				occupied[p] = true
			}
		}
		mu.Unlock()
		if collides {
			continue
		}
		return s, positions, nil
	}
	return 0, nil, fmt.Errorf("%w: exhausted %d seeds for bucket %d (%d keys)", metaerr.ErrMphBuildFailure, maxSeedAttempts, bk.id, len(bk.keys))
}
