// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arb fetches live quotes for matched market pairs and evaluates
// them for cross-venue arbitrage.
package arb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/arb-engine/internal/httputil"
	"github.com/pdiddy/arb-engine/pkg/types"
)

// Single-market endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	kalshiMarketBase     = "https://api.elections.kalshi.com/trade-api/v2/markets"
	polymarketMarketBase = "https://gamma-api.polymarket.com/markets"
)

// PriceFetcher retrieves current quotes for individual markets.
type PriceFetcher struct {
	Client    *http.Client
	UserAgent string
}

type kalshiMarketResponse struct {
	Market struct {
		YesBid *float64 `json:"yes_bid"`
		YesAsk *float64 `json:"yes_ask"`
		NoBid  *float64 `json:"no_bid"`
		NoAsk  *float64 `json:"no_ask"`
	} `json:"market"`
}

// FetchKalshiQuote returns the current order-book quote for one Kalshi
// ticker. Prices arrive as cents and are converted to probabilities.
func (f *PriceFetcher) FetchKalshiQuote(ctx context.Context, ticker string) (types.BookQuote, error) {
	var resp kalshiMarketResponse
	url := kalshiMarketBase + "/" + ticker
	if err := f.getJSON(ctx, url, &resp); err != nil {
		return types.BookQuote{}, fmt.Errorf("fetching kalshi quote for %s: %w", ticker, err)
	}
	m := resp.Market
	return types.BookQuote{
		MarketID:  ticker,
		YesBid:    centsToProbability(m.YesBid),
		YesAsk:    centsToProbability(m.YesAsk),
		NoBid:     centsToProbability(m.NoBid),
		NoAsk:     centsToProbability(m.NoAsk),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// FetchPolymarketQuote returns the current outcome prices for one
// Polymarket market id. The gamma API reports the field either as an array
// or as a JSON-encoded string; the lenient path handles both.
func (f *PriceFetcher) FetchPolymarketQuote(ctx context.Context, id string) (types.OutcomeQuote, error) {
	var raw struct {
		OutcomePrices jsonStringArray `json:"outcomePrices"`
	}
	url := polymarketMarketBase + "/" + id
	if err := f.getJSON(ctx, url, &raw); err != nil {
		return types.OutcomeQuote{}, fmt.Errorf("fetching polymarket quote for %s: %w", id, err)
	}

	quote := types.OutcomeQuote{MarketID: id, FetchedAt: time.Now().UTC()}
	if len(raw.OutcomePrices) > 0 {
		quote.YesPrice = parsePrice(raw.OutcomePrices[0])
	}
	if len(raw.OutcomePrices) > 1 {
		quote.NoPrice = parsePrice(raw.OutcomePrices[1])
	}
	return quote, nil
}

func (f *PriceFetcher) getJSON(ctx context.Context, url string, v any) error {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": f.UserAgent,
	}
	return httputil.GetJSON(ctx, f.Client, url, headers, v)
}

// FetchAll gathers live quotes for every distinct market id referenced by
// matches. Failed lookups are logged to w and skipped; the scan runs on
// whatever quotes were obtained.
func (f *PriceFetcher) FetchAll(ctx context.Context, matches []types.Match, cfg types.ScanConfig, w io.Writer) (types.LivePrices, error) {
	prices := types.LivePrices{
		Kalshi:     make(map[string]types.BookQuote),
		Polymarket: make(map[string]types.OutcomeQuote),
		FetchedAt:  time.Now().UTC(),
	}

	kalshiIDs := uniqueIDs(matches, func(m types.Match) string { return m.LeftID })
	polyIDs := uniqueIDs(matches, func(m types.Match) string { return m.RightID })
	fmt.Fprintf(w, "fetching quotes for %d kalshi + %d polymarket markets\n", len(kalshiIDs), len(polyIDs))

	for _, id := range kalshiIDs {
		quote, err := f.FetchKalshiQuote(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return prices, ctx.Err()
			}
			fmt.Fprintf(w, "warning: %v\n", err)
			continue
		}
		prices.Kalshi[id] = quote
		if err := sleep(ctx, cfg.QuoteDelay); err != nil {
			return prices, err
		}
	}

	for _, id := range polyIDs {
		quote, err := f.FetchPolymarketQuote(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return prices, ctx.Err()
			}
			fmt.Fprintf(w, "warning: %v\n", err)
			continue
		}
		prices.Polymarket[id] = quote
		if err := sleep(ctx, cfg.QuoteDelay); err != nil {
			return prices, err
		}
	}

	fmt.Fprintf(w, "fetched %d kalshi + %d polymarket quotes\n", len(prices.Kalshi), len(prices.Polymarket))
	return prices, nil
}

func uniqueIDs(matches []types.Match, key func(types.Match) string) []string {
	seen := make(map[string]struct{}, len(matches))
	var ids []string
	for _, m := range matches {
		id := key(m)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func centsToProbability(cents *float64) *float64 {
	if cents == nil {
		return nil
	}
	p := *cents / 100
	return &p
}

// jsonStringArray decodes either a JSON array of strings or a JSON-encoded
// string containing one. Unparseable input decodes to nil.
type jsonStringArray []string

func (a *jsonStringArray) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*a = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return nil
	}
	*a = arr
	return nil
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	// Some feeds report cents rather than probabilities.
	if v > 1 {
		v /= 100
	}
	return &v
}
