// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arb-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline on a schedule",
	Long: `Run drives the fetch-match-scan cycle continuously: catalogs are refreshed
and re-matched every data interval, and live-price scans execute every scan
interval in between. --once performs a single full cycle and exits.

Interrupt (Ctrl-C) stops the loop cleanly after the current stage.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("once", false, "run one full cycle and exit")
	runCmd.Flags().Duration("data-interval", 12*time.Hour, "catalog refresh and re-match interval")
	runCmd.Flags().Duration("scan-interval", 10*time.Minute, "live-price scan interval")

	// The run command reuses the per-stage flags.
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	runCmd.Flags().Duration("page-delay", 0, "delay between consecutive page requests")
	runCmd.Flags().Int("page-limit", 500, "markets requested per page")
	runCmd.Flags().String("api-key", "", "Kalshi API key (default: .secrets/kalshi-api-key)")
	runCmd.Flags().Float64("score-cutoff", 80, "minimum text-similarity score")
	runCmd.Flags().Float64("max-time-diff", 24, "maximum end-time distance in hours")
	runCmd.Flags().Int("workers", 0, "scoring goroutines (0 = GOMAXPROCS)")
	runCmd.Flags().Duration("quote-delay", 100*time.Millisecond, "delay between consecutive quote requests")
	runCmd.Flags().Float64("min-profit", 0.5, "minimum post-fee profit percent to report")
	runCmd.Flags().Float64("max-profit", 25, "maximum plausible profit percent")
	runCmd.Flags().Int("max-alerts", 10, "maximum Discord alerts per scan")
	runCmd.Flags().String("data-dir", defaultDataDir, "working data directory")
	runCmd.Flags().String("webhook", "", "Discord webhook URL (default: .secrets/discord-webhook)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")

	cfg := pipelineConfig(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresh := func() {
		if err := fetchBoth(ctx, cfg.Fetch); err != nil {
			fmt.Fprintf(os.Stderr, "data refresh failed: %v\n", err)
			return
		}
		if _, err := executeMatch(ctx, cfg.Match, true); err != nil {
			fmt.Fprintf(os.Stderr, "match failed: %v\n", err)
		}
	}
	scan := func() {
		if err := executeScan(ctx, cfg.Scan); err != nil {
			fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		}
	}

	// First cycle. Fresh snapshots from a recent run are reused so a
	// restart does not hammer the catalog APIs.
	if fetchFresh(cfg.Fetch.DataDir, cfg.DataInterval) {
		fmt.Println("Recent snapshots found, skipping initial fetch")
		if _, err := executeMatch(ctx, cfg.Match, true); err != nil {
			fmt.Fprintf(os.Stderr, "match failed: %v\n", err)
		}
	} else {
		refresh()
	}
	scan()

	if once {
		return nil
	}

	dataTicker := time.NewTicker(cfg.DataInterval)
	defer dataTicker.Stop()
	scanTicker := time.NewTicker(cfg.ScanInterval)
	defer scanTicker.Stop()

	fmt.Printf("Scheduler started: data every %v, scans every %v\n", cfg.DataInterval, cfg.ScanInterval)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Shutting down")
			return nil
		case <-dataTicker.C:
			refresh()
		case <-scanTicker.C:
			scan()
		}
	}
}

func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	return types.PipelineConfig{
		Fetch:        fetchConfig(cmd),
		Match:        matchConfig(cmd),
		Scan:         scanConfig(cmd),
		Store:        types.StoreConfig{DataDir: optionString(cmd, "data-dir", "data_dir")},
		DataInterval: optionDuration(cmd, "data-interval", "data_interval"),
		ScanInterval: optionDuration(cmd, "scan-interval", "scan_interval"),
	}
}

func fetchBoth(ctx context.Context, cfg types.FetchConfig) error {
	client := &http.Client{Timeout: cfg.Timeout}
	if err := fetchKalshi(ctx, client, cfg); err != nil {
		return err
	}
	return fetchPolymarket(ctx, client, cfg)
}
