// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arb-engine/internal/corpus"
	"github.com/pdiddy/arb-engine/internal/ingest"
	"github.com/pdiddy/arb-engine/internal/match"
	"github.com/pdiddy/arb-engine/internal/store"
	"github.com/pdiddy/arb-engine/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Link equivalent markets across the two catalog snapshots",
	Long: `Match builds normalized records from the fetched snapshots, scores
Kalshi-Polymarket candidate pairs by token-set similarity, applies the quality
gate, and deduplicates to a one-to-one pairing. The result is written as a
JSON report and recorded in the run-history database.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("data-dir", defaultDataDir, "directory snapshots are read from and the report is written to")
	matchCmd.Flags().Float64("score-cutoff", match.DefaultScoreCutoff, "minimum text-similarity score")
	matchCmd.Flags().Float64("max-time-diff", match.DefaultMaxTimeDiffHours, "maximum end-time distance in hours")
	matchCmd.Flags().Int("workers", 0, "scoring goroutines (0 = GOMAXPROCS)")
	matchCmd.Flags().Bool("no-store", false, "skip recording the run in the history database")

	rootCmd.AddCommand(matchCmd)
}

func matchConfig(cmd *cobra.Command) types.MatchConfig {
	return types.MatchConfig{
		ScoreCutoff:      optionFloat(cmd, "score-cutoff", "score_cutoff"),
		MaxTimeDiffHours: optionFloat(cmd, "max-time-diff", "max_time_diff_hours"),
		Workers:          optionInt(cmd, "workers", "workers"),
		DataDir:          optionString(cmd, "data-dir", "data_dir"),
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := matchConfig(cmd)
	noStore, _ := cmd.Flags().GetBool("no-store")

	report, err := executeMatch(cmd.Context(), cfg, !noStore)
	if err != nil {
		return err
	}

	fmt.Printf("Matched %d market pairs\n", report.TotalMatches)
	return nil
}

// executeMatch runs the full match stage: snapshots to corpora to report.
// Shared by the match and run commands.
func executeMatch(ctx context.Context, cfg types.MatchConfig, record bool) (types.MatchReport, error) {
	kalshiRaw, err := ingest.LoadSnapshot(filepath.Join(cfg.DataDir, ingest.KalshiSnapshot))
	if err != nil {
		return types.MatchReport{}, fmt.Errorf("kalshi snapshot missing (run fetch first): %w", err)
	}
	polyRaw, err := ingest.LoadSnapshot(filepath.Join(cfg.DataDir, ingest.PolymarketSnapshot))
	if err != nil {
		return types.MatchReport{}, fmt.Errorf("polymarket snapshot missing (run fetch first): %w", err)
	}

	left := corpus.Build(kalshiRaw, os.Stdout)
	right := corpus.Build(polyRaw, os.Stdout)
	fmt.Printf("Built corpora: %d Kalshi, %d Polymarket records\n", len(left), len(right))

	report := match.Run(left, right, cfg, os.Stdout)

	reportPath := filepath.Join(cfg.DataDir, matchesFile)
	if err := match.WriteReport(report, reportPath); err != nil {
		return report, err
	}
	fmt.Printf("Wrote match report to %s\n", reportPath)

	if record {
		s, err := store.NewStore(types.StoreConfig{DataDir: cfg.DataDir})
		if err != nil {
			return report, fmt.Errorf("opening history store: %w", err)
		}
		defer s.Close()

		runID, err := s.RecordRun(ctx, report)
		if err != nil {
			return report, fmt.Errorf("recording run: %w", err)
		}
		fmt.Printf("Recorded run %s\n", runID)
	}

	return report, nil
}
