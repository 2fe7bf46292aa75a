package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arb-engine/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewStore(types.StoreConfig{DataDir: tmpDir, MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func testReport() types.MatchReport {
	diff := 3.0
	return types.MatchReport{
		GeneratedAt:  time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		TotalMatches: 2,
		Criteria: types.MatchCriteria{
			MinTextSimilarity: 80,
			MaxTimeDiffHours:  24,
		},
		Matches: []types.Match{
			{
				LeftID: "FED-25BPS", RightID: "500123",
				LeftTitle: "Will the Fed cut rates by 25bps in December 2024?", RightTitle: "Fed cuts rates by 25bps in December 2024?",
				Score: 95.5, Domain: types.DomainMacro, TimeDiffHours: &diff,
				EntityOverlap: 0.5, NumberOverlap: 1.0,
				SharedEntities: []string{"fed"}, SharedNumbers: []string{"2024", "25bps"},
			},
			{
				LeftID: "BTC-100K", RightID: "500456",
				LeftTitle: "Will bitcoin close above $100k in 2025?", RightTitle: "Bitcoin above $100k by end of 2025?",
				Score: 88.0, Domain: types.DomainCrypto,
				EntityOverlap: 1.0, NumberOverlap: 1.0,
				SharedEntities: []string{"bitcoin"}, SharedNumbers: []string{"$100k", "2025"},
			},
		},
	}
}

func TestRecordRunAndList(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	runID, err := store.RecordRun(ctx, testReport())
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].ID != runID {
		t.Errorf("run id = %q, want %q", runs[0].ID, runID)
	}
	if runs[0].TotalMatches != 2 {
		t.Errorf("TotalMatches = %d, want 2", runs[0].TotalMatches)
	}
	if runs[0].Criteria.MinTextSimilarity != 80 {
		t.Errorf("criteria not round-tripped: %+v", runs[0].Criteria)
	}
}

func TestRunsOrderedNewestFirst(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	first := testReport()
	first.GeneratedAt = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	second := testReport()
	second.GeneratedAt = time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	firstID, err := store.RecordRun(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	secondID, err := store.RecordRun(ctx, second)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != secondID || runs[1].ID != firstID {
		t.Errorf("runs not newest-first: %+v", runs)
	}
}

func TestQueryFullText(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	if _, err := store.RecordRun(ctx, testReport()); err != nil {
		t.Fatal(err)
	}

	results, err := store.Query(ctx, QueryOptions{Query: "bitcoin"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].LeftID != "BTC-100K" {
		t.Errorf("LeftID = %q", results[0].LeftID)
	}
	if results[0].Domain != types.DomainCrypto {
		t.Errorf("Domain = %q", results[0].Domain)
	}
	if len(results[0].SharedNumbers) != 2 {
		t.Errorf("SharedNumbers = %v", results[0].SharedNumbers)
	}
	if results[0].TimeDiffHours != nil {
		t.Errorf("TimeDiffHours should be nil, got %v", *results[0].TimeDiffHours)
	}
}

func TestQueryStructuredFilters(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	runID, err := store.RecordRun(ctx, testReport())
	if err != nil {
		t.Fatal(err)
	}

	// Domain filter.
	results, err := store.Query(ctx, QueryOptions{Domain: types.DomainMacro})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].LeftID != "FED-25BPS" {
		t.Errorf("domain filter: %+v", results)
	}
	if results[0].TimeDiffHours == nil || *results[0].TimeDiffHours != 3.0 {
		t.Errorf("TimeDiffHours = %v, want 3.0", results[0].TimeDiffHours)
	}

	// Run filter plus score floor.
	results, err = store.Query(ctx, QueryOptions{RunID: runID, MinScore: 90})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Score != 95.5 {
		t.Errorf("score filter: %+v", results)
	}

	// No filters: everything, score descending.
	results, err = store.Query(ctx, QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Score < results[1].Score {
		t.Errorf("default ordering: %+v", results)
	}
}

func TestQueryMaxResults(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	if _, err := store.RecordRun(ctx, testReport()); err != nil {
		t.Fatal(err)
	}

	results, err := store.Query(ctx, QueryOptions{MaxResults: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestExportYAML(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()
	if _, err := store.RecordRun(ctx, testReport()); err != nil {
		t.Fatal(err)
	}

	if err := store.ExportYAML(ctx, QueryOptions{}); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, indexDir, "export.yaml"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	var entries []QueryResult
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("exported %d entries, want 2", len(entries))
	}
}

func TestRecordScan(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	report := types.OpportunityReport{
		GeneratedAt:        time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC),
		TotalOpportunities: 1,
		Opportunities: []types.ScanHit{
			{
				Match: types.Match{
					LeftID: "FED-25BPS", RightID: "500123",
					Score: 95.5, Domain: types.DomainMacro,
				},
				Arbitrage: types.Opportunity{
					Type:      "poly_yes_kalshi_no",
					Strategy:  "Complementary positions",
					Cost:      0.90,
					MinPayout: 0.98,
					ProfitPct: 8.89,
				},
				KalshiTitle: "Will the Fed cut rates by 25bps in December 2024?",
			},
		},
	}

	if err := store.RecordScan(ctx, report); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	var (
		count    int
		strategy string
		profit   float64
	)
	row := store.db.QueryRow(`SELECT count(*), strategy, profit_pct FROM opportunities`)
	if err := row.Scan(&count, &strategy, &profit); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("got %d opportunities, want 1", count)
	}
	if strategy != "Complementary positions" {
		t.Errorf("strategy = %q", strategy)
	}
	if profit != 8.89 {
		t.Errorf("profit_pct = %v, want 8.89", profit)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.StoreConfig{DataDir: tmpDir}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordRun(context.Background(), testReport()); err != nil {
		t.Fatal(err)
	}
	store.Close()

	// Reopening finds the existing schema and data.
	store, err = NewStore(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	runs, err := store.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
