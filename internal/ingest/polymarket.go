// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/arb-engine/internal/httputil"
	"github.com/pdiddy/arb-engine/pkg/types"
)

// polymarketMarketsBase is the Polymarket gamma API markets endpoint.
// Declared as a var so tests can substitute an httptest server.
var polymarketMarketsBase = "https://gamma-api.polymarket.com/markets"

// PolymarketClient fetches open markets from the Polymarket gamma API.
type PolymarketClient struct {
	Client *http.Client
}

// flexFloat decodes a JSON number that the gamma API sometimes serializes
// as a quoted string ("1234.56").
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := string(data)
	if s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing number %q: %w", s, err)
	}
	*f = flexFloat(v)
	return nil
}

type gammaMarket struct {
	ID            string          `json:"id"`
	Question      string          `json:"question"`
	Description   string          `json:"description"`
	EndDate       string          `json:"endDate"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
	Liquidity     flexFloat       `json:"liquidity"`
	Volume        flexFloat       `json:"volume"`
	Closed        bool            `json:"closed"`
}

// FetchMarkets pages through all open (closed=false) Polymarket markets via
// offset pagination and returns them normalized. A failure after the first
// page returns the markets fetched so far with a warning instead of an
// error.
func (c *PolymarketClient) FetchMarkets(ctx context.Context, cfg types.FetchConfig, w io.Writer) ([]types.RawMarket, error) {
	pageLimit := cfg.PageLimit
	if pageLimit <= 0 {
		pageLimit = 500
	}

	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": cfg.UserAgent,
	}

	var all []types.RawMarket
	for offset := 0; ; offset += pageLimit {
		params := url.Values{
			"closed": {"false"},
			"limit":  {fmt.Sprintf("%d", pageLimit)},
			"offset": {fmt.Sprintf("%d", offset)},
		}

		var page []gammaMarket
		if err := httputil.GetJSON(ctx, c.Client, polymarketMarketsBase+"?"+params.Encode(), headers, &page); err != nil {
			if len(all) > 0 {
				fmt.Fprintf(w, "warning: polymarket offset %d failed, keeping %d markets: %v\n", offset, len(all), err)
				return all, nil
			}
			return nil, fmt.Errorf("fetching polymarket markets: %w", err)
		}

		if len(page) == 0 {
			break
		}
		for _, m := range page {
			all = append(all, normalizePolymarket(m))
		}
		fmt.Fprintf(w, "polymarket: offset %d, %d markets so far\n", offset, len(all))

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

func normalizePolymarket(m gammaMarket) types.RawMarket {
	yes, no := decodeOutcomePrices(m.OutcomePrices)
	status := "open"
	if m.Closed {
		status = "closed"
	}
	return types.RawMarket{
		ID:          m.ID,
		Title:       m.Question,
		Description: m.Description,
		EndDate:     m.EndDate,
		YesPrice:    yes,
		NoPrice:     no,
		Liquidity:   float64(m.Liquidity),
		Volume:      float64(m.Volume),
		Status:      status,
	}
}

// decodeOutcomePrices handles the gamma API's outcomePrices field, which may
// be a JSON array of strings or a JSON-encoded string containing such an
// array ("[\"0.65\", \"0.35\"]"). The first two prices are yes and no.
// Anything unparseable yields nil prices rather than an error.
func decodeOutcomePrices(raw json.RawMessage) (yes, no *float64) {
	if len(raw) == 0 {
		return nil, nil
	}

	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return nil, nil
		}
	}

	parse := func(i int) *float64 {
		if i >= len(arr) {
			return nil
		}
		v, err := strconv.ParseFloat(arr[i], 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return parse(0), parse(1)
}
