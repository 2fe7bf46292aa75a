// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// DefaultScoreCutoff and DefaultMaxTimeDiffHours are the stock values for
// the two externally overridable knobs.
const (
	DefaultScoreCutoff      = 80.0
	DefaultMaxTimeDiffHours = 24.0
)

// Run executes one full linkage pass: for every left record it searches the
// domain bucket, scores candidates, applies the quality gate, then resolves
// the pooled candidates into an injective match set. The search-and-score
// step is sharded across workers; each worker only reads the shared,
// never-mutated index and writes a private slot, so the phase needs no
// locking. The dedup reduce runs afterwards on the fully materialized pool.
func Run(left, right []types.Record, cfg types.MatchConfig, w io.Writer) types.MatchReport {
	cutoff := cfg.ScoreCutoff
	if cutoff <= 0 {
		cutoff = DefaultScoreCutoff
	}
	maxDiff := cfg.MaxTimeDiffHours
	if maxDiff <= 0 {
		maxDiff = DefaultMaxTimeDiffHours
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	index := NewIndex(right)

	// Map phase: one optional candidate per left record, written to a
	// private slot so collection order stays deterministic.
	results := make([]*types.Match, len(left))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = bestMatch(&left[i], index, cutoff, maxDiff)
			}
		}()
	}
	for i := range left {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	pool := make([]types.Match, 0, len(left))
	for _, m := range results {
		if m != nil {
			pool = append(pool, *m)
		}
	}
	fmt.Fprintf(w, "found %d candidate match(es) across %d left record(s)\n", len(pool), len(left))

	final := Deduplicate(pool)
	fmt.Fprintf(w, "final matches after deduplication: %d\n", len(final))

	return types.MatchReport{
		GeneratedAt:  time.Now().UTC(),
		TotalMatches: len(final),
		Criteria: types.MatchCriteria{
			MinTextSimilarity:         minGateScore,
			MinEntityOverlapRatio:     minEntityOverlap,
			StrictEntityMatching:      true,
			SemanticOppositeFiltering: true,
			DomainExactMatch:          true,
			MaxTimeDiffHours:          maxDiff,
		},
		Matches: final,
	}
}

// bestMatch finds the single best-scoring gated candidate for one left
// record, or nil. Ties keep the candidate encountered first in bucket order.
func bestMatch(left *types.Record, index *Index, cutoff, maxDiffHours float64) *types.Match {
	candidates := index.Candidates(left, maxDiffHours)
	if len(candidates) == 0 {
		return nil
	}

	var best *types.Record
	bestScore := 0.0
	for _, cand := range candidates {
		score := TokenSetRatio(left.NormText, cand.NormText)
		if score < cutoff {
			continue
		}
		if best == nil || score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if best == nil {
		return nil
	}

	if !Accept(left, best, bestScore) {
		return nil
	}

	// Exact time distance, recomputed rather than reused from pruning.
	var timeDiff *float64
	if left.EndTime != nil && best.EndTime != nil {
		d := hoursApart(*left.EndTime, *best.EndTime)
		if d > maxDiffHours {
			return nil
		}
		d = round1(d)
		timeDiff = &d
	}

	sharedEntities := left.Entities.Intersect(best.Entities)
	sharedNumbers := left.Numbers.Intersect(best.Numbers)

	return &types.Match{
		LeftID:         left.SourceID,
		RightID:        best.SourceID,
		LeftTitle:      left.Title,
		RightTitle:     best.Title,
		Score:          bestScore,
		Domain:         left.Domain,
		TimeDiffHours:  timeDiff,
		EntityOverlap:  round3(left.Entities.Jaccard(best.Entities)),
		NumberOverlap:  round3(left.Numbers.Jaccard(best.Numbers)),
		SharedEntities: sharedEntities.Sorted(),
		SharedNumbers:  sharedNumbers.Sorted(),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
