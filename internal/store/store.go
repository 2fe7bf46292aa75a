// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists match runs to SQLite and serves history queries
// over them. Titles are indexed with FTS5 so past matches can be searched
// by market wording.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arb-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "arb.db"
)

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the history database at dataDir/index/arb.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			total_matches INTEGER NOT NULL,
			criteria TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			left_id TEXT NOT NULL,
			right_id TEXT NOT NULL,
			left_title TEXT,
			right_title TEXT,
			score REAL,
			domain TEXT,
			time_diff_hours REAL,
			entity_overlap REAL,
			number_overlap REAL,
			shared_entities TEXT,
			shared_numbers TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run_id ON matches(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_domain ON matches(domain)`,
		`CREATE TABLE IF NOT EXISTS opportunities (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			left_id TEXT NOT NULL,
			right_id TEXT NOT NULL,
			kalshi_title TEXT,
			strategy TEXT,
			type TEXT,
			cost REAL,
			min_payout REAL,
			profit_pct REAL,
			match_score REAL,
			domain TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_recorded_at ON opportunities(recorded_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='matches_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE matches_fts USING fts5(left_title, right_title, content=matches, content_rowid=rowid)`,
			`CREATE TRIGGER matches_ai AFTER INSERT ON matches BEGIN
				INSERT INTO matches_fts(rowid, left_title, right_title) VALUES (new.rowid, new.left_title, new.right_title);
			END`,
			`CREATE TRIGGER matches_ad AFTER DELETE ON matches BEGIN
				INSERT INTO matches_fts(matches_fts, rowid, left_title, right_title) VALUES('delete', old.rowid, old.left_title, old.right_title);
			END`,
			`CREATE TRIGGER matches_au AFTER UPDATE ON matches BEGIN
				INSERT INTO matches_fts(matches_fts, rowid, left_title, right_title) VALUES('delete', old.rowid, old.left_title, old.right_title);
				INSERT INTO matches_fts(rowid, left_title, right_title) VALUES (new.rowid, new.left_title, new.right_title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// RecordRun persists one match report and returns the new run id.
func (s *Store) RecordRun(ctx context.Context, report types.MatchReport) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	criteriaJSON, err := json.Marshal(report.Criteria)
	if err != nil {
		return "", fmt.Errorf("encoding criteria: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, generated_at, total_matches, criteria) VALUES (?, ?, ?, ?)`,
		runID, report.GeneratedAt.UTC().Format(time.RFC3339Nano), report.TotalMatches, string(criteriaJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (run_id, left_id, right_id, left_title, right_title, score, domain,
			time_diff_hours, entity_overlap, number_overlap, shared_entities, shared_numbers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range report.Matches {
		entitiesJSON, _ := json.Marshal(m.SharedEntities)
		numbersJSON, _ := json.Marshal(m.SharedNumbers)

		var timeDiff any
		if m.TimeDiffHours != nil {
			timeDiff = *m.TimeDiffHours
		}

		_, err := stmt.ExecContext(ctx,
			runID, m.LeftID, m.RightID, m.LeftTitle, m.RightTitle, m.Score, string(m.Domain),
			timeDiff, m.EntityOverlap, m.NumberOverlap, string(entitiesJSON), string(numbersJSON),
		)
		if err != nil {
			return "", fmt.Errorf("inserting match %s/%s: %w", m.LeftID, m.RightID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RecordScan persists the opportunities found by one scan pass.
func (s *Store) RecordScan(ctx context.Context, report types.OpportunityReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO opportunities (recorded_at, left_id, right_id, kalshi_title, strategy, type,
			cost, min_payout, profit_pct, match_score, domain)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	recordedAt := report.GeneratedAt.UTC().Format(time.RFC3339Nano)
	for _, hit := range report.Opportunities {
		_, err := stmt.ExecContext(ctx,
			recordedAt, hit.Match.LeftID, hit.Match.RightID, hit.KalshiTitle,
			hit.Arbitrage.Strategy, hit.Arbitrage.Type,
			hit.Arbitrage.Cost, hit.Arbitrage.MinPayout, hit.Arbitrage.ProfitPct,
			hit.Match.Score, string(hit.Match.Domain),
		)
		if err != nil {
			return fmt.Errorf("inserting opportunity %s/%s: %w", hit.Match.LeftID, hit.Match.RightID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing scan: %w", err)
	}
	return nil
}

// RunSummary describes one persisted match run.
type RunSummary struct {
	ID           string              `json:"id" yaml:"id"`
	GeneratedAt  time.Time           `json:"generated_at" yaml:"generated_at"`
	TotalMatches int                 `json:"total_matches" yaml:"total_matches"`
	Criteria     types.MatchCriteria `json:"criteria" yaml:"criteria"`
}

// Runs lists persisted runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, generated_at, total_matches, criteria FROM runs ORDER BY generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run          RunSummary
			generatedAt  string
			criteriaJSON sql.NullString
		)
		if err := rows.Scan(&run.ID, &generatedAt, &run.TotalMatches, &criteriaJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
			run.GeneratedAt = t
		}
		if criteriaJSON.Valid {
			json.Unmarshal([]byte(criteriaJSON.String), &run.Criteria)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
