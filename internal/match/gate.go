// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/arb-engine/pkg/types"
)

const (
	// minGateScore is the gate's hard text-similarity floor. It is
	// independent of the scorer's configurable cutoff.
	minGateScore = 80

	// minEntityOverlap is the minimum Jaccard overlap of the two entity sets.
	minEntityOverlap = 0.3

	// numericEscapeScore lets very strong textual matches through the
	// numeric-closeness rule.
	numericEscapeScore = 95
)

// oppositePairs lists antonym word pairs. A candidate is rejected outright
// when one text contains a word and the other contains its opposite; fuzzy
// text scores cannot distinguish "rate cut" from "rate hike".
var oppositePairs = [][2]string{
	{"above", "below"},
	{"over", "under"},
	{"more than", "less than"},
	{"increase", "decrease"},
	{"rise", "fall"},
	{"up", "down"},
	{"win", "lose"},
	{"outperform", "underperform"},
	{"cut", "hike"},
	{"emergency", "scheduled"},
}

// oppositeRes holds a word-boundary regexp per antonym word, built once at
// startup. Multi-word phrases tolerate any inner whitespace.
var oppositeRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, 2*len(oppositePairs))
	for _, pair := range oppositePairs {
		for _, word := range pair {
			expr := `\b` + strings.ReplaceAll(regexp.QuoteMeta(word), " ", `\s+`) + `\b`
			res[word] = regexp.MustCompile(expr)
		}
	}
	return res
}()

// requiredEntities maps domains to the entity subset a shared-entity set
// must intersect. Domains absent from the map skip the check.
var requiredEntities = map[types.Domain]types.StringSet{
	types.DomainPolitics: types.NewStringSet("trump", "biden", "harris", "election", "president"),
	types.DomainCrypto:   types.NewStringSet("bitcoin", "btc", "ethereum", "eth", "solana", "sol", "dogecoin", "doge"),
	types.DomainMacro:    types.NewStringSet("federal reserve", "fed", "interest rate", "unemployment", "inflation"),
}

// polarityConflict reports whether the two texts sit on opposite sides of
// any antonym pair.
func polarityConflict(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, pair := range oppositePairs {
		re1, re2 := oppositeRes[pair[0]], oppositeRes[pair[1]]
		if (re1.MatchString(la) && re2.MatchString(lb)) ||
			(re2.MatchString(la) && re1.MatchString(lb)) {
			return true
		}
	}
	return false
}

// scalarValues re-parses the comparable token shapes of a number set:
// basis points ("25bps") and percentages ("3.5%"). Dollar amounts and plain
// literals are deliberately not comparable here; they still participate in
// the verbatim-intersection check.
func scalarValues(numbers types.StringSet) []float64 {
	var vals []float64
	for token := range numbers {
		switch {
		case strings.HasSuffix(token, "bps"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(token, "bps"), 64); err == nil {
				vals = append(vals, v)
			}
		case strings.HasSuffix(token, "%"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64); err == nil {
				vals = append(vals, v)
			}
		}
	}
	return vals
}

// numbersCompatible implements the numeric-closeness rule: vacuously true
// when either side extracted no numbers; true on verbatim token overlap;
// otherwise true when some left/right scalar pair differs by no more than
// max(50, left*0.2), or the text score alone is >= 95.
func numbersCompatible(left, right *types.Record, score float64) bool {
	if len(left.Numbers) == 0 || len(right.Numbers) == 0 {
		return true
	}
	if len(left.Numbers.Intersect(right.Numbers)) > 0 {
		return true
	}

	for _, lv := range scalarValues(left.Numbers) {
		for _, rv := range scalarValues(right.Numbers) {
			if math.Abs(lv-rv) <= math.Max(50, lv*0.2) {
				return true
			}
		}
	}
	return score >= numericEscapeScore
}

// Accept applies the quality gate to a scored candidate pair: an ordered
// sequence of necessary conditions, each of which rejects immediately on
// failure.
func Accept(left, right *types.Record, score float64) bool {
	if score < minGateScore {
		return false
	}

	shared := left.Entities.Intersect(right.Entities)
	if len(shared) == 0 {
		return false
	}

	if left.Entities.Jaccard(right.Entities) < minEntityOverlap {
		return false
	}

	if polarityConflict(left.RawText, right.RawText) {
		return false
	}

	if required, ok := requiredEntities[left.Domain]; ok {
		if len(shared.Intersect(required)) == 0 {
			return false
		}
	}

	return numbersCompatible(left, right, score)
}
