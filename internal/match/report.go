// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// WriteReport persists the match report as indented JSON, writing through a
// temp file so a crashed run never leaves a truncated artifact behind.
func WriteReport(report types.MatchReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".matches-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	encErr := enc.Encode(report)
	closeErr := tmp.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encoding report: %w", encErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// LoadReport reads a previously written match report.
func LoadReport(path string) (types.MatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.MatchReport{}, fmt.Errorf("reading match report %s: %w", path, err)
	}
	var report types.MatchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return types.MatchReport{}, fmt.Errorf("parsing match report %s: %w", path, err)
	}
	return report, nil
}
