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

	"github.com/pdiddy/arb-engine/internal/ingest"
	"github.com/pdiddy/arb-engine/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download open market catalogs from Kalshi and Polymarket",
	Long: `Fetch pages through the open markets on both venues, normalizes them to a
common shape, and writes snapshot files under the data directory. Snapshots
are the input to the match stage.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	fetchCmd.Flags().Duration("page-delay", 0, "delay between consecutive page requests")
	fetchCmd.Flags().Int("page-limit", 500, "markets requested per page")
	fetchCmd.Flags().String("data-dir", defaultDataDir, "directory for snapshot files")
	fetchCmd.Flags().String("source", "all", "catalog to fetch: kalshi, polymarket, or all")
	fetchCmd.Flags().String("api-key", "", "Kalshi API key (default: .secrets/kalshi-api-key)")

	rootCmd.AddCommand(fetchCmd)
}

func fetchConfig(cmd *cobra.Command) types.FetchConfig {
	timeout := optionDuration(cmd, "timeout", "timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PageLimit:    optionInt(cmd, "page-limit", "page_limit"),
		PageDelay:    optionDuration(cmd, "page-delay", "page_delay"),
		DataDir:      optionString(cmd, "data-dir", "data_dir"),
		KalshiAPIKey: secretDefault("kalshi-api-key", optionString(cmd, "api-key", "kalshi_api_key")),
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	cfg := fetchConfig(cmd)

	client := &http.Client{Timeout: cfg.Timeout}
	ctx := cmd.Context()

	if source == "kalshi" || source == "all" {
		if err := fetchKalshi(ctx, client, cfg); err != nil {
			return err
		}
	}
	if source == "polymarket" || source == "all" {
		if err := fetchPolymarket(ctx, client, cfg); err != nil {
			return err
		}
	}
	if source != "kalshi" && source != "polymarket" && source != "all" {
		return fmt.Errorf("unknown source %q: use kalshi, polymarket, or all", source)
	}
	return nil
}

func fetchKalshi(ctx context.Context, client *http.Client, cfg types.FetchConfig) error {
	kc := &ingest.KalshiClient{Client: client, APIKey: cfg.KalshiAPIKey}
	markets, err := kc.FetchMarkets(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.DataDir, ingest.KalshiSnapshot)
	if err := ingest.SaveSnapshot(markets, path); err != nil {
		return err
	}
	fmt.Printf("Saved %d Kalshi markets to %s\n", len(markets), path)
	return nil
}

func fetchPolymarket(ctx context.Context, client *http.Client, cfg types.FetchConfig) error {
	pc := &ingest.PolymarketClient{Client: client}
	markets, err := pc.FetchMarkets(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.DataDir, ingest.PolymarketSnapshot)
	if err := ingest.SaveSnapshot(markets, path); err != nil {
		return err
	}
	fmt.Printf("Saved %d Polymarket markets to %s\n", len(markets), path)
	return nil
}

// fetchFresh reports whether both snapshots exist and are newer than maxAge.
// The run scheduler uses it to skip redundant catalog downloads on startup.
func fetchFresh(dataDir string, maxAge time.Duration) bool {
	for _, name := range []string{ingest.KalshiSnapshot, ingest.PolymarketSnapshot} {
		info, err := os.Stat(filepath.Join(dataDir, name))
		if err != nil || time.Since(info.ModTime()) > maxAge {
			return false
		}
	}
	return true
}
