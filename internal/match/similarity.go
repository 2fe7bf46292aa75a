// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match implements the record-linkage engine: candidate indexing,
// token-set similarity scoring, the quality-gate acceptance policy, and the
// final greedy deduplication into a one-to-one match set.
package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// ratio is a normalized similarity in [0,100] between two strings based on
// edit distance.
func ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// tokenSet returns the sorted unique tokens of an already-folded text.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

// TokenSetRatio scores two folded texts in [0,100]. The comparison is
// insensitive to word order, duplicate tokens, and one text being a strict
// word-subset of the other: it splits both token sets into the shared
// portion and the two remainders, and takes the best pairwise ratio of
// (shared), (shared + left remainder), and (shared + right remainder). When
// one vocabulary contains the other, the shared string equals one of the
// combined strings and the score is 100.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		inA[t] = struct{}{}
	}

	var shared, onlyA, onlyB []string
	for _, t := range ta {
		if _, ok := inB[t]; ok {
			shared = append(shared, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if _, ok := inA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	s0 := strings.Join(shared, " ")
	s1 := joinParts(s0, onlyA)
	s2 := joinParts(s0, onlyB)

	best := ratio(s1, s2)
	if len(shared) > 0 {
		if r := ratio(s0, s1); r > best {
			best = r
		}
		if r := ratio(s0, s2); r > best {
			best = r
		}
	}
	return best
}

func joinParts(shared string, rest []string) string {
	if len(rest) == 0 {
		return shared
	}
	if shared == "" {
		return strings.Join(rest, " ")
	}
	return shared + " " + strings.Join(rest, " ")
}
