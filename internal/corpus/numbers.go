// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/arb-engine/pkg/types"
)

var (
	yearRe    = regexp.MustCompile(`\b(202[0-9])\b`)
	percentRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*%`)
	dollarRe  = regexp.MustCompile(`\$(\d+(?:,\d+)*(?:\.\d+)?)\s*([kmb]?)`)
	bpsRe     = regexp.MustCompile(`\b(\d+)\s*bps?\b`)
	literalRe = regexp.MustCompile(`\b\d+(?:,\d+)*(?:\.\d+)?\b`)
)

// ExtractNumbers collects the meaningful numeric tokens of a text into one
// set of strings. Five classes are extracted: years ("2024"), percentages
// ("3.5%"), dollar amounts with optional k/m/b suffix ("$2.5m"), basis-point
// quantities ("25bps"), and generic literals with magnitude >= 10. A digit
// sequence already consumed by the percent, dollar, or basis-point class is
// not re-added as a bare literal. Token shapes are heterogeneous; consumers
// strip the "%"/"bps" decoration when they need the scalar.
func ExtractNumbers(text string) types.StringSet {
	lower := strings.ToLower(text)
	numbers := make(types.StringSet)

	// Spans covered by shaped tokens, so bare literal extraction can
	// skip them.
	var covered [][2]int

	for _, loc := range yearRe.FindAllStringIndex(lower, -1) {
		numbers.Add(lower[loc[0]:loc[1]])
	}

	for _, m := range percentRe.FindAllStringSubmatchIndex(lower, -1) {
		numbers.Add(lower[m[2]:m[3]] + "%")
		covered = append(covered, [2]int{m[0], m[1]})
	}

	for _, m := range dollarRe.FindAllStringSubmatchIndex(lower, -1) {
		amount := lower[m[2]:m[3]]
		suffix := lower[m[4]:m[5]]
		numbers.Add("$" + amount + suffix)
		covered = append(covered, [2]int{m[0], m[1]})
	}

	for _, m := range bpsRe.FindAllStringSubmatchIndex(lower, -1) {
		numbers.Add(lower[m[2]:m[3]] + "bps")
		covered = append(covered, [2]int{m[0], m[1]})
	}

	for _, loc := range literalRe.FindAllStringIndex(lower, -1) {
		if overlapsAny(loc[0], loc[1], covered) {
			continue
		}
		token := lower[loc[0]:loc[1]]
		val, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
		if err != nil || val < 10 {
			continue // small numbers are noise
		}
		numbers.Add(token)
	}

	return numbers
}

func overlapsAny(start, end int, spans [][2]int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}
