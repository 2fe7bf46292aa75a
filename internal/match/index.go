// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"math"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// Index partitions the right-side corpus by domain once per run. Buckets are
// built in input order and never mutated afterwards, so concurrent readers
// need no locking.
type Index struct {
	buckets map[types.Domain][]*types.Record
}

// NewIndex builds the domain buckets for the right corpus.
func NewIndex(right []types.Record) *Index {
	buckets := make(map[types.Domain][]*types.Record)
	for i := range right {
		r := &right[i]
		buckets[r.Domain] = append(buckets[r.Domain], r)
	}
	return &Index{buckets: buckets}
}

// Candidates returns the right-side records a left record may pair with:
// the bucket of the left record's own domain, temporally pruned. When the
// left record's end time is known, candidates are kept only if their end
// time is unknown or within maxTimeDiffHours; when it is unknown, the whole
// bucket is returned.
func (ix *Index) Candidates(left *types.Record, maxTimeDiffHours float64) []*types.Record {
	bucket := ix.buckets[left.Domain]
	if left.EndTime == nil || len(bucket) == 0 {
		return bucket
	}

	filtered := make([]*types.Record, 0, len(bucket))
	for _, cand := range bucket {
		if cand.EndTime == nil || hoursApart(*left.EndTime, *cand.EndTime) <= maxTimeDiffHours {
			filtered = append(filtered, cand)
		}
	}
	return filtered
}

// hoursApart returns the absolute distance between two instants in hours.
func hoursApart(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours())
}
