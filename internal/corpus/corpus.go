// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus turns raw catalog markets into canonical Records: it folds
// text for comparison, extracts curated entities and numeric tokens, assigns
// a coarse domain, and parses end times. Records are immutable once built.
package corpus

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
	multiWSRe  = regexp.MustCompile(`\s+`)
)

// Fold lowercases text and collapses everything that is not a letter or a
// digit into single spaces. Two texts with equivalent wording but different
// formatting fold to the same string.
func Fold(text string) string {
	s := strings.ToLower(text)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = multiWSRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ParseEndTime parses an ISO-8601 timestamp, tolerating a trailing Z and a
// missing zone designator. It returns nil on any parse failure; an
// unparsable end time degrades to "unknown", it is not an error.
func ParseEndTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// BuildRecord constructs a Record from one raw market. ok is false when the
// market has an empty title and must be dropped from the corpus. A missing
// identifier is an upstream interface violation and returns an error.
func BuildRecord(raw types.RawMarket) (rec types.Record, ok bool, err error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return types.Record{}, false, fmt.Errorf("raw market %q has no identifier", raw.Title)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return types.Record{}, false, nil
	}

	rawText := title
	if desc := strings.TrimSpace(raw.Description); desc != "" {
		rawText = title + ". " + desc
	}

	return types.Record{
		SourceID: id,
		Title:    title,
		RawText:  rawText,
		NormText: Fold(rawText),
		EndTime:  ParseEndTime(raw.EndDate),
		Entities: ExtractEntities(rawText),
		Numbers:  ExtractNumbers(rawText),
		Domain:   Classify(rawText),
	}, true, nil
}

// Build constructs the corpus for one catalog. Markets with empty titles are
// dropped silently; contract violations are reported to w and skipped so one
// bad record never aborts the batch.
func Build(raws []types.RawMarket, w io.Writer) []types.Record {
	records := make([]types.Record, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		rec, ok, err := BuildRecord(raw)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping malformed market: %v\n", err)
			continue
		}
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		fmt.Fprintf(w, "dropped %d untitled market(s)\n", dropped)
	}
	return records
}
