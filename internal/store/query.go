// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// QueryOptions holds parameters for history queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string, matched against both
	// market titles.
	Query string

	// Domain filters by match domain.
	Domain types.Domain

	// RunID restricts results to a single run.
	RunID string

	// MinScore drops matches below the given text-similarity score.
	MinScore float64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Domain == "" && q.RunID == "" && q.MinScore == 0
}

// QueryResult is a persisted match together with its run context.
type QueryResult struct {
	types.Match `yaml:",inline"`
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Query searches persisted matches with optional full-text search and
// structured filters. Full-text queries rank by FTS relevance; structured
// queries sort by score descending.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT m.run_id, r.generated_at, m.left_id, m.right_id, m.left_title, m.right_title,
				m.score, m.domain, m.time_diff_hours, m.entity_overlap, m.number_overlap,
				m.shared_entities, m.shared_numbers
			FROM matches_fts
			JOIN matches m ON m.rowid = matches_fts.rowid
			JOIN runs r ON m.run_id = r.id
			WHERE matches_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT m.run_id, r.generated_at, m.left_id, m.right_id, m.left_title, m.right_title,
				m.score, m.domain, m.time_diff_hours, m.entity_overlap, m.number_overlap,
				m.shared_entities, m.shared_numbers
			FROM matches m
			JOIN runs r ON m.run_id = r.id
			WHERE 1=1`)
	}

	if opts.Domain != "" {
		qb.WriteString(` AND m.domain = ?`)
		args = append(args, string(opts.Domain))
	}

	if opts.RunID != "" {
		qb.WriteString(` AND m.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if opts.MinScore > 0 {
		qb.WriteString(` AND m.score >= ?`)
		args = append(args, opts.MinScore)
	}

	if useFTS {
		qb.WriteString(` ORDER BY matches_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY m.score DESC, m.left_id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying match history: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr           QueryResult
			generatedAt  string
			domain       string
			timeDiff     sql.NullFloat64
			entitiesJSON sql.NullString
			numbersJSON  sql.NullString
		)
		err := rows.Scan(&qr.RunID, &generatedAt, &qr.LeftID, &qr.RightID, &qr.LeftTitle, &qr.RightTitle,
			&qr.Score, &domain, &timeDiff, &qr.EntityOverlap, &qr.NumberOverlap,
			&entitiesJSON, &numbersJSON)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}

		qr.Domain = types.Domain(domain)
		if t, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
			qr.GeneratedAt = t
		}
		if timeDiff.Valid {
			v := timeDiff.Float64
			qr.TimeDiffHours = &v
		}
		if entitiesJSON.Valid {
			json.Unmarshal([]byte(entitiesJSON.String), &qr.SharedEntities)
		}
		if numbersJSON.Valid {
			json.Unmarshal([]byte(numbersJSON.String), &qr.SharedNumbers)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}
