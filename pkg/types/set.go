// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// StringSet is an unordered set of strings. Entity and number extraction
// produce StringSets; the quality gate compares them.
type StringSet map[string]struct{}

// NewStringSet returns a set containing the given values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v into the set.
func (s StringSet) Add(v string) { s[v] = struct{}{} }

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Intersect returns the elements present in both sets.
func (s StringSet) Intersect(other StringSet) StringSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(StringSet)
	for v := range small {
		if large.Has(v) {
			out.Add(v)
		}
	}
	return out
}

// UnionSize returns |s ∪ other| without materializing the union.
func (s StringSet) UnionSize(other StringSet) int {
	n := len(s)
	for v := range other {
		if !s.Has(v) {
			n++
		}
	}
	return n
}

// Sorted returns the elements in ascending order. An empty set yields an
// empty (non-nil) slice so JSON output stays `[]` rather than `null`.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Jaccard returns |s ∩ other| / |s ∪ other|, or 0 when both sets are empty.
func (s StringSet) Jaccard(other StringSet) float64 {
	union := s.UnionSize(other)
	if union == 0 {
		return 0
	}
	return float64(len(s.Intersect(other))) / float64(union)
}
