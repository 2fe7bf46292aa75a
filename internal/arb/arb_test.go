// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arb

import (
	"io"
	"math"
	"testing"

	"github.com/pdiddy/arb-engine/pkg/types"
)

func f(v float64) *float64 { return &v }

func TestEvaluateComplementaryPolyYesKalshiNo(t *testing.T) {
	// Poly YES 0.40 + Kalshi NO 0.50 = 0.90 cost against a 0.98
	// worst-case payout.
	book := types.BookQuote{YesAsk: f(0.55), YesBid: f(0.45), NoAsk: f(0.50), NoBid: f(0.40)}
	quote := types.OutcomeQuote{YesPrice: f(0.40), NoPrice: f(0.60)}

	opp := Evaluate(book, quote)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Type != "poly_yes_kalshi_no" {
		t.Errorf("Type = %q", opp.Type)
	}
	if opp.Strategy != StrategyComplementary {
		t.Errorf("Strategy = %q", opp.Strategy)
	}
	if math.Abs(opp.Cost-0.90) > 1e-9 {
		t.Errorf("Cost = %f, want 0.90", opp.Cost)
	}
	if math.Abs(opp.MinPayout-0.98) > 1e-9 {
		t.Errorf("MinPayout = %f, want 0.98 (1 - kalshi fee)", opp.MinPayout)
	}
	wantPct := (0.98 - 0.90) / 0.90 * 100
	if math.Abs(opp.ProfitPct-wantPct) > 1e-9 {
		t.Errorf("ProfitPct = %f, want %f", opp.ProfitPct, wantPct)
	}
}

func TestEvaluatePicksBestStrategy(t *testing.T) {
	// Both complementary directions are viable; NO+YES is cheaper and
	// must win.
	book := types.BookQuote{YesAsk: f(0.30), YesBid: f(0.25), NoAsk: f(0.55), NoBid: f(0.50)}
	quote := types.OutcomeQuote{YesPrice: f(0.35), NoPrice: f(0.40)}

	opp := Evaluate(book, quote)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Type != "poly_no_kalshi_yes" {
		t.Errorf("Type = %q, want poly_no_kalshi_yes", opp.Type)
	}
}

func TestEvaluateSameSide(t *testing.T) {
	// No complementary edge, but Kalshi YES at 0.50 sells on Polymarket
	// at 0.60.
	book := types.BookQuote{YesAsk: f(0.50), YesBid: f(0.48), NoAsk: f(0.52), NoBid: f(0.50)}
	quote := types.OutcomeQuote{YesPrice: f(0.60), NoPrice: f(0.52)}

	opp := Evaluate(book, quote)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Type != "same_side_yes" {
		t.Errorf("Type = %q, want same_side_yes", opp.Type)
	}
	netReceive := 0.60 * (1 - polyFee)
	if math.Abs(opp.MinPayout-netReceive) > 1e-9 {
		t.Errorf("MinPayout = %f, want %f", opp.MinPayout, netReceive)
	}
}

func TestEvaluateNoEdge(t *testing.T) {
	// Efficient prices: YES + NO sums to 1.00, no cross-venue spread.
	book := types.BookQuote{YesAsk: f(0.61), YesBid: f(0.59), NoAsk: f(0.41), NoBid: f(0.39)}
	quote := types.OutcomeQuote{YesPrice: f(0.60), NoPrice: f(0.40)}

	if opp := Evaluate(book, quote); opp != nil {
		t.Errorf("expected no opportunity, got %+v", opp)
	}
}

func TestEvaluateBelowReportFloor(t *testing.T) {
	// Cost 0.977 against payout 0.98: positive but under the 0.5% floor.
	book := types.BookQuote{NoAsk: f(0.487), YesAsk: f(0.52)}
	quote := types.OutcomeQuote{YesPrice: f(0.49)}

	if opp := Evaluate(book, quote); opp != nil {
		t.Errorf("expected floor to filter, got %.3f%%", opp.ProfitPct)
	}
}

func TestEvaluateMissingQuotes(t *testing.T) {
	if opp := Evaluate(types.BookQuote{}, types.OutcomeQuote{}); opp != nil {
		t.Errorf("expected nil for empty quotes, got %+v", opp)
	}
	// Zero prices are treated as missing, not free money.
	book := types.BookQuote{NoAsk: f(0)}
	quote := types.OutcomeQuote{YesPrice: f(0)}
	if opp := Evaluate(book, quote); opp != nil {
		t.Errorf("expected nil for zero quotes, got %+v", opp)
	}
}

func TestScanFiltersProfitBand(t *testing.T) {
	matches := []types.Match{
		{LeftID: "K1", RightID: "P1", LeftTitle: "Fed cuts rates?", RightTitle: "Fed cuts rates in Dec?"},
		{LeftID: "K2", RightID: "P2", LeftTitle: "Unrealistic", RightTitle: "Unrealistic"},
		{LeftID: "K3", RightID: "P3", LeftTitle: "No quotes", RightTitle: "No quotes"},
	}
	prices := types.LivePrices{
		Kalshi: map[string]types.BookQuote{
			"K1": {YesAsk: f(0.55), NoAsk: f(0.50)},
			// K2's quotes imply a ~390% profit: stale data.
			"K2": {YesAsk: f(0.15), NoAsk: f(0.10)},
		},
		Polymarket: map[string]types.OutcomeQuote{
			"P1": {YesPrice: f(0.40), NoPrice: f(0.60)},
			"P2": {YesPrice: f(0.10), NoPrice: f(0.90)},
		},
	}

	hits := Scan(matches, prices, types.ScanConfig{MinProfitPct: 0.5, MaxProfitPct: 25}, io.Discard)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].Match.LeftID != "K1" {
		t.Errorf("hit = %s", hits[0].Match.LeftID)
	}
	if hits[0].KalshiTitle != "Fed cuts rates?" {
		t.Errorf("KalshiTitle = %q", hits[0].KalshiTitle)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	if report.TotalOpportunities != 0 {
		t.Errorf("TotalOpportunities = %d", report.TotalOpportunities)
	}
	if report.Opportunities == nil {
		t.Error("Opportunities should serialize as [], not null")
	}
}
