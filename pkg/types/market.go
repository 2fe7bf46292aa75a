// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the arb-engine pipeline:
// raw catalog markets, normalized records, match results, live quotes, and
// per-stage configuration.
package types

import "time"

// Domain is the coarse category assigned to every record. The set is closed;
// classification falls back to DomainOther when no rule matches.
type Domain string

const (
	DomainPolitics      Domain = "politics"
	DomainMacro         Domain = "macro"
	DomainCrypto        Domain = "crypto"
	DomainFinance       Domain = "finance"
	DomainTech          Domain = "tech"
	DomainSports        Domain = "sports"
	DomainEntertainment Domain = "entertainment"
	DomainOther         Domain = "other"
)

// RawMarket is the catalog-neutral shape both ingestion clients normalize
// into. It is what snapshot files contain; the matcher never reads it
// directly, it consumes Records built from it.
type RawMarket struct {
	// ID is the stable per-catalog identifier (Kalshi ticker,
	// Polymarket market id).
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// EndDate is the raw ISO-8601 close time as reported by the catalog,
	// possibly empty or malformed.
	EndDate string `json:"end_date,omitempty"`

	// Order-book style quotes (Kalshi). Probabilities in [0,1].
	YesBid *float64 `json:"yes_bid,omitempty"`
	YesAsk *float64 `json:"yes_ask,omitempty"`

	// Outcome-price style quotes (Polymarket). Probabilities in [0,1].
	YesPrice *float64 `json:"yes_price,omitempty"`
	NoPrice  *float64 `json:"no_price,omitempty"`

	Liquidity float64 `json:"liquidity,omitempty"`
	Volume    float64 `json:"volume,omitempty"`
	Status    string  `json:"status,omitempty"`
}

// Record is the canonical in-memory form of one market question. Records are
// built once per run and never mutated afterwards; every field except
// EndTime is always populated (possibly empty, never absent).
type Record struct {
	// SourceID is unique within the record's catalog.
	SourceID string

	// Title is the human-facing question text.
	Title string

	// RawText is title plus description, human-facing.
	RawText string

	// NormText is the case- and punctuation-folded form of RawText used
	// only for similarity scoring.
	NormText string

	// EndTime is nil when the catalog reported no close time or the
	// value did not parse. Unknown is not an error.
	EndTime *time.Time

	// Entities holds tags from the curated vocabulary found in the text.
	Entities StringSet

	// Numbers holds meaningful numeric tokens (years, "$5m", "25bps",
	// "3.5%", literals >= 10) as strings.
	Numbers StringSet

	// Domain is the single coarse category.
	Domain Domain
}

// Match is one accepted pairing between a left-catalog and a right-catalog
// record. The same struct serves as the transient scored candidate (before
// deduplication) and as the persisted artifact entry.
type Match struct {
	LeftID     string `json:"left_id"`
	RightID    string `json:"right_id"`
	LeftTitle  string `json:"left_title"`
	RightTitle string `json:"right_title"`

	// Score is the text-similarity score in [cutoff, 100].
	Score float64 `json:"score"`

	Domain Domain `json:"domain"`

	// TimeDiffHours is nil when either side lacks a known end time.
	TimeDiffHours *float64 `json:"time_diff_hours"`

	// EntityOverlap and NumberOverlap are Jaccard ratios in [0,1].
	EntityOverlap float64 `json:"entity_overlap"`
	NumberOverlap float64 `json:"number_overlap"`

	// Intersection sets, sorted, kept for audit.
	SharedEntities []string `json:"shared_entities"`
	SharedNumbers  []string `json:"shared_numbers"`
}

// MatchCriteria records the acceptance policy a match run was executed
// under. It is embedded in the persisted report for downstream consumers.
type MatchCriteria struct {
	MinTextSimilarity         float64 `json:"min_text_similarity"`
	MinEntityOverlapRatio     float64 `json:"min_entity_overlap_ratio"`
	StrictEntityMatching      bool    `json:"strict_entity_matching"`
	SemanticOppositeFiltering bool    `json:"semantic_opposite_filtering"`
	DomainExactMatch          bool    `json:"domain_exact_match"`
	MaxTimeDiffHours          float64 `json:"max_time_diff_hours"`
}

// MatchReport is the persisted output artifact of a match run. It is written
// once per run and treated as read-only by downstream consumers. No left or
// right identifier appears more than once across Matches.
type MatchReport struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	TotalMatches int           `json:"total_matches"`
	Criteria     MatchCriteria `json:"matching_criteria"`
	Matches      []Match       `json:"matches"`
}
