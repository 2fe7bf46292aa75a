// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arb-engine/internal/arb"
	"github.com/pdiddy/arb-engine/internal/match"
	"github.com/pdiddy/arb-engine/internal/notify"
	"github.com/pdiddy/arb-engine/internal/store"
	"github.com/pdiddy/arb-engine/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Price matched pairs against live quotes and report arbitrage",
	Long: `Scan reads the match report, fetches current quotes for every linked pair,
and evaluates complementary-position and same-side strategies after fees.
Opportunities inside the profit band are written to a JSON report and, when a
Discord webhook is configured, broadcast as alerts.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	scanCmd.Flags().Duration("quote-delay", 100*time.Millisecond, "delay between consecutive quote requests")
	scanCmd.Flags().Float64("min-profit", 0.5, "minimum post-fee profit percent to report")
	scanCmd.Flags().Float64("max-profit", 25, "maximum plausible profit percent (higher is treated as stale data)")
	scanCmd.Flags().Int("max-alerts", 10, "maximum Discord alerts per scan")
	scanCmd.Flags().String("data-dir", defaultDataDir, "directory the match report is read from")
	scanCmd.Flags().String("webhook", "", "Discord webhook URL (default: .secrets/discord-webhook)")

	rootCmd.AddCommand(scanCmd)
}

func scanConfig(cmd *cobra.Command) types.ScanConfig {
	timeout := optionDuration(cmd, "timeout", "timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.ScanConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		QuoteDelay:   optionDuration(cmd, "quote-delay", "quote_delay"),
		MinProfitPct: optionFloat(cmd, "min-profit", "min_profit_pct"),
		MaxProfitPct: optionFloat(cmd, "max-profit", "max_profit_pct"),
		MaxAlerts:    optionInt(cmd, "max-alerts", "max_alerts"),
		WebhookURL:   secretDefault("discord-webhook", optionString(cmd, "webhook", "discord_webhook")),
		DataDir:      optionString(cmd, "data-dir", "data_dir"),
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := scanConfig(cmd)
	return executeScan(cmd.Context(), cfg)
}

// executeScan runs the full scan stage. Shared by the scan and run commands.
func executeScan(ctx context.Context, cfg types.ScanConfig) error {
	report, err := match.LoadReport(filepath.Join(cfg.DataDir, matchesFile))
	if err != nil {
		return fmt.Errorf("match report missing (run match first): %w", err)
	}
	if report.TotalMatches == 0 {
		fmt.Println("No matched pairs to scan")
		return nil
	}

	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := &arb.PriceFetcher{Client: client, UserAgent: cfg.UserAgent}

	prices, err := fetcher.FetchAll(ctx, report.Matches, cfg, os.Stdout)
	if err != nil {
		return err
	}

	hits := arb.Scan(report.Matches, prices, cfg, os.Stdout)

	oppReport := arb.BuildReport(hits)
	oppPath := filepath.Join(cfg.DataDir, opportunitiesFile)
	if err := arb.WriteReport(oppReport, oppPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d opportunities to %s\n", len(hits), oppPath)

	if len(hits) > 0 {
		s, err := store.NewStore(types.StoreConfig{DataDir: cfg.DataDir})
		if err != nil {
			return fmt.Errorf("opening history store: %w", err)
		}
		defer s.Close()
		if err := s.RecordScan(ctx, oppReport); err != nil {
			return fmt.Errorf("recording scan: %w", err)
		}
	}

	notifier := &notify.Notifier{
		Client:     client,
		WebhookURL: cfg.WebhookURL,
		UserAgent:  cfg.UserAgent,
		AlertDelay: time.Second,
	}
	if sent := notifier.Broadcast(ctx, hits, cfg.MaxAlerts, os.Stdout); sent > 0 {
		fmt.Printf("Sent %d Discord alerts\n", sent)
	}
	return nil
}
