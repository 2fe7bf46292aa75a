// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/pdiddy/arb-engine/pkg/types"
)

func cand(leftID, rightID string, score, entityOverlap, numberOverlap float64) types.Match {
	return types.Match{
		LeftID:        leftID,
		RightID:       rightID,
		Score:         score,
		EntityOverlap: entityOverlap,
		NumberOverlap: numberOverlap,
	}
}

func TestDeduplicateInjective(t *testing.T) {
	pool := []types.Match{
		cand("L1", "R1", 90, 1, 1),
		cand("L2", "R1", 95, 1, 1), // stronger claim on R1
		cand("L2", "R2", 85, 0.5, 0),
		cand("L3", "R3", 88, 0.4, 0.2),
	}

	final := Deduplicate(pool)

	seenLeft := map[string]bool{}
	seenRight := map[string]bool{}
	for _, m := range final {
		if seenLeft[m.LeftID] {
			t.Errorf("left %s matched twice", m.LeftID)
		}
		if seenRight[m.RightID] {
			t.Errorf("right %s matched twice", m.RightID)
		}
		seenLeft[m.LeftID] = true
		seenRight[m.RightID] = true
	}

	// L2 wins R1 on composite score; L1 and the weaker L2-R2 claim drop out.
	if !seenLeft["L2"] || !seenRight["R1"] {
		t.Errorf("expected L2-R1 in final set, got %+v", final)
	}
	if len(final) != 2 {
		t.Errorf("len(final) = %d, want 2", len(final))
	}
}

func TestDeduplicateCompositeRanking(t *testing.T) {
	// Equal text score: entity overlap (weight 30) outranks number
	// overlap (weight 20).
	pool := []types.Match{
		cand("L1", "R1", 90, 0, 1),
		cand("L2", "R1", 90, 1, 0),
	}
	final := Deduplicate(pool)
	if len(final) != 1 || final[0].LeftID != "L2" {
		t.Errorf("expected L2 to win R1, got %+v", final)
	}
}

func TestDeduplicateStableOnTies(t *testing.T) {
	pool := []types.Match{
		cand("L1", "R1", 90, 0.5, 0.5),
		cand("L2", "R1", 90, 0.5, 0.5),
	}
	final := Deduplicate(pool)
	if len(final) != 1 || final[0].LeftID != "L1" {
		t.Errorf("tie should keep original order, got %+v", final)
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if got := Deduplicate(nil); len(got) != 0 {
		t.Errorf("Deduplicate(nil) = %v, want empty", got)
	}
}

func TestDeduplicateDoesNotMutateInput(t *testing.T) {
	pool := []types.Match{
		cand("L1", "R1", 80, 0, 0),
		cand("L2", "R2", 99, 1, 1),
	}
	Deduplicate(pool)
	if pool[0].LeftID != "L1" {
		t.Error("input pool order must be preserved")
	}
}
