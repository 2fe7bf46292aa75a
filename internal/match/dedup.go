// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// compositeScore ranks candidates for deduplication: text score plus
// weighted entity and number overlap.
func compositeScore(m types.Match) float64 {
	return m.Score + 30*m.EntityOverlap + 20*m.NumberOverlap
}

// Deduplicate resolves the pooled candidate list into an injective match
// set: candidates are stably sorted by descending composite score, then
// greedily accepted unless either side's identifier was already consumed.
// The walk is inherently sequential and must observe the complete pool.
func Deduplicate(candidates []types.Match) []types.Match {
	sorted := make([]types.Match, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compositeScore(sorted[i]) > compositeScore(sorted[j])
	})

	usedLeft := make(map[string]struct{}, len(sorted))
	usedRight := make(map[string]struct{}, len(sorted))
	final := make([]types.Match, 0, len(sorted))

	for _, m := range sorted {
		if _, ok := usedLeft[m.LeftID]; ok {
			continue
		}
		if _, ok := usedRight[m.RightID]; ok {
			continue
		}
		usedLeft[m.LeftID] = struct{}{}
		usedRight[m.RightID] = struct{}{}
		final = append(final, m)
	}
	return final
}
