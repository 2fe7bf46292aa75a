// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arb

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// Worst-case per-venue fees applied when sizing payouts.
const (
	kalshiFee = 0.02  // 2% on the winning side
	polyFee   = 0.005 // 0.5% gas and settlement
)

// reportFloorPct is the minimum post-fee profit an opportunity must clear
// before it is reported at all; the configured min/max bounds filter on top
// of this.
const reportFloorPct = 0.5

const (
	StrategyComplementary = "Complementary positions"
	StrategySameSide      = "Same-side arbitrage (risky)"
)

// Evaluate prices every viable position pair for one matched market and
// returns the most profitable one, or nil when nothing clears the floor.
//
// A complementary pair buys YES on one venue and NO on the other; it pays
// out regardless of the outcome, so the edge is 1.00 minus combined cost
// minus the worst-case winning-side fee. The same-side variant buys the
// cheap venue and sells the expensive one on the same outcome.
func Evaluate(book types.BookQuote, quote types.OutcomeQuote) *types.Opportunity {
	// Worst case payout of a complementary pair: exactly one leg pays
	// $1 less that venue's fee, whichever venue it is.
	minPayout := 1 - kalshiFee
	if 1-polyFee < minPayout {
		minPayout = 1 - polyFee
	}

	var best *types.Opportunity
	consider := func(o types.Opportunity) {
		if best == nil || o.ProfitPct > best.ProfitPct {
			best = &o
		}
	}

	// Buy Polymarket YES + buy Kalshi NO.
	if pos(quote.YesPrice) && pos(book.NoAsk) {
		cost := *quote.YesPrice + *book.NoAsk
		if cost < minPayout {
			profit := minPayout - cost
			consider(types.Opportunity{
				Type:        "poly_yes_kalshi_no",
				Action:      fmt.Sprintf("Buy Polymarket YES @ %.3f + Buy Kalshi NO @ %.3f", *quote.YesPrice, *book.NoAsk),
				Strategy:    StrategyComplementary,
				Cost:        cost,
				MinPayout:   minPayout,
				Profit:      profit,
				ProfitPct:   profit / cost * 100,
				PolyPrice:   *quote.YesPrice,
				KalshiPrice: *book.NoAsk,
			})
		}
	}

	// Buy Polymarket NO + buy Kalshi YES.
	if pos(quote.NoPrice) && pos(book.YesAsk) {
		cost := *quote.NoPrice + *book.YesAsk
		if cost < minPayout {
			profit := minPayout - cost
			consider(types.Opportunity{
				Type:        "poly_no_kalshi_yes",
				Action:      fmt.Sprintf("Buy Polymarket NO @ %.3f + Buy Kalshi YES @ %.3f", *quote.NoPrice, *book.YesAsk),
				Strategy:    StrategyComplementary,
				Cost:        cost,
				MinPayout:   minPayout,
				Profit:      profit,
				ProfitPct:   profit / cost * 100,
				PolyPrice:   *quote.NoPrice,
				KalshiPrice: *book.YesAsk,
			})
		}
	}

	// Buy Kalshi YES cheap, sell Polymarket YES rich.
	if pos(book.YesAsk) && pos(book.YesBid) && pos(quote.YesPrice) {
		netReceive := *quote.YesPrice * (1 - polyFee)
		if *book.YesAsk < netReceive {
			profit := netReceive - *book.YesAsk
			consider(types.Opportunity{
				Type:        "same_side_yes",
				Action:      fmt.Sprintf("Buy Kalshi YES @ %.3f, Sell Polymarket YES @ %.3f", *book.YesAsk, *quote.YesPrice),
				Strategy:    StrategySameSide,
				Cost:        *book.YesAsk,
				MinPayout:   netReceive,
				Profit:      profit,
				ProfitPct:   profit / *book.YesAsk * 100,
				PolyPrice:   *quote.YesPrice,
				KalshiPrice: *book.YesAsk,
			})
		}
	}

	if best == nil || best.ProfitPct <= reportFloorPct {
		return nil
	}
	return best
}

func pos(p *float64) bool { return p != nil && *p > 0 }

// Scan evaluates every matched pair against the live quotes and returns the
// hits inside the configured profit band. Opportunities above MaxProfitPct
// are treated as stale-data artifacts and logged rather than returned.
func Scan(matches []types.Match, prices types.LivePrices, cfg types.ScanConfig, w io.Writer) []types.ScanHit {
	minPct := cfg.MinProfitPct
	if minPct <= 0 {
		minPct = 0.5
	}
	maxPct := cfg.MaxProfitPct
	if maxPct <= 0 {
		maxPct = 25
	}

	fmt.Fprintf(w, "scanning %d matched markets (profit band %.1f%%-%.1f%%)\n", len(matches), minPct, maxPct)

	var hits []types.ScanHit
	for _, m := range matches {
		book, ok := prices.Kalshi[m.LeftID]
		if !ok {
			continue
		}
		quote, ok := prices.Polymarket[m.RightID]
		if !ok {
			continue
		}

		opp := Evaluate(book, quote)
		if opp == nil {
			continue
		}
		if opp.ProfitPct > maxPct {
			fmt.Fprintf(w, "filtered unrealistic opportunity on %s/%s: %.1f%% profit\n", m.LeftID, m.RightID, opp.ProfitPct)
			continue
		}
		if opp.ProfitPct < minPct {
			continue
		}

		hits = append(hits, types.ScanHit{
			Match:       m,
			Arbitrage:   *opp,
			KalshiTitle: m.LeftTitle,
			PolyTitle:   m.RightTitle,
		})
		fmt.Fprintf(w, "arbitrage: %s (%.2f%%) on %q\n", opp.Action, opp.ProfitPct, m.LeftTitle)
	}

	fmt.Fprintf(w, "scan complete: %d opportunities\n", len(hits))
	return hits
}

// BuildReport wraps scan hits in the persisted report shape.
func BuildReport(hits []types.ScanHit) types.OpportunityReport {
	if hits == nil {
		hits = []types.ScanHit{}
	}
	return types.OpportunityReport{
		GeneratedAt:        time.Now().UTC(),
		TotalOpportunities: len(hits),
		Opportunities:      hits,
	}
}
