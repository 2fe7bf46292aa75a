// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arb-engine/internal/store"
	"github.com/pdiddy/arb-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List and search past match runs",
	Long: `History lists persisted match runs, newest first. With a query or filter it
searches the stored matches instead: full-text search over both market
titles, or structured filters by domain, run, and score.

--export writes the (optionally filtered) match history to
data/index/export.yaml.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("data-dir", defaultDataDir, "directory containing the history database")
	historyCmd.Flags().String("query", "", "full-text search over matched titles")
	historyCmd.Flags().String("domain", "", "filter matches by domain")
	historyCmd.Flags().String("run", "", "filter matches by run id")
	historyCmd.Flags().Float64("min-score", 0, "filter matches below this score")
	historyCmd.Flags().Int("limit", 0, "maximum results (0 = store default)")
	historyCmd.Flags().Bool("export", false, "write matching history to data/index/export.yaml")
	historyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	maxResults, _ := cmd.Flags().GetInt("limit")

	s, err := store.NewStore(types.StoreConfig{DataDir: dataDir, MaxResults: maxResults})
	if err != nil {
		return err
	}
	defer s.Close()

	opts := historyOptsFromFlags(cmd, args)
	ctx := cmd.Context()

	if export, _ := cmd.Flags().GetBool("export"); export {
		if err := s.ExportYAML(ctx, opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", dataDir)
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	// No query or filters: list runs.
	if opts.IsEmpty() {
		runs, err := s.Runs(ctx)
		if err != nil {
			return err
		}
		return formatRuns(runs, jsonOutput)
	}

	results, err := s.Query(ctx, opts)
	if err != nil {
		return err
	}
	return formatMatches(results, jsonOutput)
}

func historyOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	domain, _ := cmd.Flags().GetString("domain")
	runID, _ := cmd.Flags().GetString("run")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Domain:     types.Domain(domain),
		RunID:      runID,
		MinScore:   minScore,
		MaxResults: limit,
	}
}

func formatRuns(runs []store.RunSummary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %s\n", "Run", "Generated", "Matches")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 68))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %d\n",
			r.ID, r.GeneratedAt.Format("2006-01-02 15:04:05"), r.TotalMatches)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func formatMatches(results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-45s  %-45s\n", "Score", "Domain", "Kalshi", "Polymarket")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 112))
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-6.1f  %-10s  %-45s  %-45s\n",
			r.Score, r.Domain, clip(r.LeftTitle, 45), clip(r.RightTitle, 45))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
