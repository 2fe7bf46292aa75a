// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BookQuote is an order-book style live quote (Kalshi). All prices are
// probabilities in [0,1]; a nil field means the side had no resting orders.
type BookQuote struct {
	MarketID  string    `json:"market_id"`
	YesBid    *float64  `json:"yes_bid"`
	YesAsk    *float64  `json:"yes_ask"`
	NoBid     *float64  `json:"no_bid"`
	NoAsk     *float64  `json:"no_ask"`
	FetchedAt time.Time `json:"fetched_at"`
}

// OutcomeQuote is an outcome-price style live quote (Polymarket). Prices are
// probabilities in [0,1]; nil means the outcome price was missing.
type OutcomeQuote struct {
	MarketID  string    `json:"market_id"`
	YesPrice  *float64  `json:"yes_price"`
	NoPrice   *float64  `json:"no_price"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LivePrices groups the quotes fetched for one scan pass, keyed by the
// matched market identifiers.
type LivePrices struct {
	Kalshi     map[string]BookQuote    `json:"kalshi"`
	Polymarket map[string]OutcomeQuote `json:"polymarket"`
	FetchedAt  time.Time               `json:"fetched_at"`
}

// Opportunity is one priced arbitrage position pair for a matched market.
type Opportunity struct {
	// Type identifies the strategy leg combination, e.g.
	// "poly_yes_kalshi_no".
	Type string `json:"type"`

	// Action is the human-readable instruction.
	Action string `json:"action"`

	// Strategy names the strategy family.
	Strategy string `json:"strategy"`

	// Cost is the combined entry price of both legs.
	Cost float64 `json:"cost"`

	// MinPayout is the worst-case payout after fees.
	MinPayout float64 `json:"min_payout"`

	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`

	KalshiPrice float64 `json:"kalshi_price"`
	PolyPrice   float64 `json:"poly_price"`
}

// ScanHit pairs an opportunity with the match it was found on.
type ScanHit struct {
	Match       Match       `json:"match"`
	Arbitrage   Opportunity `json:"arbitrage"`
	KalshiTitle string      `json:"kalshi_title"`
	PolyTitle   string      `json:"poly_title"`
}

// OpportunityReport is the persisted output of a scan pass.
type OpportunityReport struct {
	GeneratedAt        time.Time `json:"generated_at"`
	TotalOpportunities int       `json:"total_opportunities"`
	Opportunities      []ScanHit `json:"opportunities"`
}
