// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest fetches open markets from the two catalogs and normalizes
// them into the shared RawMarket shape. Each client paginates the way its
// API requires (Kalshi: cursor token, Polymarket: offset) and keeps whatever
// it managed to fetch when a later page fails.
package ingest

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/arb-engine/internal/httputil"
	"github.com/pdiddy/arb-engine/pkg/types"
)

// kalshiMarketsBase is the Kalshi trade API markets endpoint. Declared as a
// var so tests can substitute an httptest server.
var kalshiMarketsBase = "https://api.elections.kalshi.com/trade-api/v2/markets"

// KalshiClient fetches open markets from the Kalshi public API. Public
// market data needs no authentication; APIKey is sent when present.
type KalshiClient struct {
	Client *http.Client
	APIKey string
}

type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

type kalshiMarket struct {
	Ticker               string   `json:"ticker"`
	Title                string   `json:"title"`
	Subtitle             string   `json:"subtitle"`
	CloseTime            string   `json:"close_time"`
	LatestExpirationTime string   `json:"latest_expiration_time"`
	YesBid               *float64 `json:"yes_bid"`
	YesAsk               *float64 `json:"yes_ask"`
	Liquidity            float64  `json:"liquidity"`
	Volume               float64  `json:"volume"`
	Status               string   `json:"status"`
}

// FetchMarkets pages through all open Kalshi markets and returns them
// normalized. Progress and warnings go to w. A failure after the first page
// returns the markets fetched so far with a warning instead of an error.
func (c *KalshiClient) FetchMarkets(ctx context.Context, cfg types.FetchConfig, w io.Writer) ([]types.RawMarket, error) {
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 500
	}

	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": cfg.UserAgent,
	}
	if c.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.APIKey
	}

	var all []types.RawMarket
	cursor := ""
	for page := 1; ; page++ {
		params := url.Values{
			"status": {"open"},
			"limit":  {fmt.Sprintf("%d", pageLimit)},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp kalshiMarketsResponse
		if err := httputil.GetJSON(ctx, c.Client, kalshiMarketsBase+"?"+params.Encode(), headers, &resp); err != nil {
			if len(all) > 0 {
				fmt.Fprintf(w, "warning: kalshi page %d failed, keeping %d markets: %v\n", page, len(all), err)
				return all, nil
			}
			return nil, fmt.Errorf("fetching kalshi markets: %w", err)
		}

		if len(resp.Markets) == 0 {
			break
		}
		for _, m := range resp.Markets {
			all = append(all, normalizeKalshi(m))
		}
		fmt.Fprintf(w, "kalshi: page %d, %d markets so far\n", page, len(all))

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor

		if cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}
	}
	return all, nil
}

// normalizeKalshi converts a Kalshi market to the catalog-neutral shape.
// Quotes arrive as integer cents and become probabilities; liquidity is
// cents and becomes dollars.
func normalizeKalshi(m kalshiMarket) types.RawMarket {
	endDate := m.CloseTime
	if endDate == "" {
		endDate = m.LatestExpirationTime
	}
	return types.RawMarket{
		ID:          m.Ticker,
		Title:       m.Title,
		Description: m.Subtitle,
		EndDate:     endDate,
		YesBid:      centsToProb(m.YesBid),
		YesAsk:      centsToProb(m.YesAsk),
		Liquidity:   math.Round(m.Liquidity) / 100,
		Volume:      m.Volume,
		Status:      m.Status,
	}
}

func centsToProb(cents *float64) *float64 {
	if cents == nil {
		return nil
	}
	p := math.Round(*cents/100*10000) / 10000
	return &p
}
