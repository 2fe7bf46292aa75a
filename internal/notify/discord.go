// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify posts arbitrage alerts to a Discord webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// Embed colors: green for the hedged complementary strategy, orange for the
// riskier same-side spread, blue for scan summaries.
const (
	colorSafe    = 0x00FF00
	colorRisky   = 0xFF8C00
	colorSummary = 0x0099FF
)

// Notifier sends webhook messages. An empty WebhookURL disables sending;
// every method becomes a no-op returning nil.
type Notifier struct {
	Client     *http.Client
	WebhookURL string
	UserAgent  string

	// AlertDelay spaces consecutive webhook posts to respect Discord
	// rate limits. Zero means no delay.
	AlertDelay time.Duration
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []embedField `json:"fields"`
	Footer embedFooter  `json:"footer"`
}

type webhookMessage struct {
	Embeds []embed `json:"embeds"`
}

// SendOpportunity posts one arbitrage hit as a rich embed.
func (n *Notifier) SendOpportunity(ctx context.Context, hit types.ScanHit) error {
	if n.WebhookURL == "" {
		return nil
	}

	color := colorRisky
	if hit.Arbitrage.Strategy == "Complementary positions" {
		color = colorSafe
	}

	msg := webhookMessage{Embeds: []embed{{
		Title: "Arbitrage opportunity",
		Color: color,
		Fields: []embedField{
			{
				Name:  "Market",
				Value: fmt.Sprintf("**Kalshi:** %s\n**Polymarket:** %s", truncate(hit.KalshiTitle, 80), truncate(hit.PolyTitle, 80)),
			},
			{
				Name:  "Strategy",
				Value: fmt.Sprintf("**%s**\n%s", hit.Arbitrage.Strategy, hit.Arbitrage.Action),
			},
			{Name: "Cost", Value: fmt.Sprintf("$%.3f", hit.Arbitrage.Cost), Inline: true},
			{Name: "Min payout", Value: fmt.Sprintf("$%.3f", hit.Arbitrage.MinPayout), Inline: true},
			{Name: "Profit", Value: fmt.Sprintf("**$%.3f (%.2f%%)**", hit.Arbitrage.Profit, hit.Arbitrage.ProfitPct), Inline: true},
			{Name: "Domain", Value: string(hit.Match.Domain), Inline: true},
			{Name: "Match score", Value: fmt.Sprintf("%.1f", hit.Match.Score), Inline: true},
			{Name: "Fees included", Value: "Kalshi: 2% | Poly: 0.5%", Inline: true},
		},
		Footer: embedFooter{Text: "arb-engine • " + time.Now().UTC().Format("2006-01-02 15:04:05 UTC")},
	}}}

	return n.post(ctx, msg)
}

// SendSummary posts a scan-complete summary embed.
func (n *Notifier) SendSummary(ctx context.Context, total int, topProfitPct float64) error {
	if n.WebhookURL == "" {
		return nil
	}

	best := "None"
	if topProfitPct > 0 {
		best = fmt.Sprintf("%.2f%%", topProfitPct)
	}
	msg := webhookMessage{Embeds: []embed{{
		Title: "Arbitrage scan complete",
		Color: colorSummary,
		Fields: []embedField{
			{Name: "Opportunities found", Value: fmt.Sprintf("%d", total), Inline: true},
			{Name: "Best profit", Value: best, Inline: true},
		},
		Footer: embedFooter{Text: "arb-engine • " + time.Now().UTC().Format("2006-01-02 15:04:05 UTC")},
	}}}

	return n.post(ctx, msg)
}

// Broadcast sends up to maxAlerts opportunity embeds followed by a summary.
// Per-hit failures are logged and counted, not fatal.
func (n *Notifier) Broadcast(ctx context.Context, hits []types.ScanHit, maxAlerts int, w io.Writer) int {
	if n.WebhookURL == "" || len(hits) == 0 {
		return 0
	}
	if maxAlerts <= 0 {
		maxAlerts = 10
	}

	sent := 0
	topProfit := 0.0
	for _, hit := range hits {
		if hit.Arbitrage.ProfitPct > topProfit {
			topProfit = hit.Arbitrage.ProfitPct
		}
		if sent >= maxAlerts {
			continue
		}
		if err := n.SendOpportunity(ctx, hit); err != nil {
			fmt.Fprintf(w, "warning: discord alert failed: %v\n", err)
			continue
		}
		sent++
		if n.AlertDelay > 0 {
			select {
			case <-ctx.Done():
				return sent
			case <-time.After(n.AlertDelay):
			}
		}
	}

	if err := n.SendSummary(ctx, len(hits), topProfit); err != nil {
		fmt.Fprintf(w, "warning: discord summary failed: %v\n", err)
	}
	return sent
}

func (n *Notifier) post(ctx context.Context, msg webhookMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.UserAgent != "" {
		req.Header.Set("User-Agent", n.UserAgent)
	}

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// Discord returns 204 No Content on success.
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
