// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/arb-engine/pkg/types"
)

// Snapshot file names under the data directory.
const (
	KalshiSnapshot     = "kalshi_markets.json"
	PolymarketSnapshot = "polymarket_markets.json"
)

// SaveSnapshot writes markets as an indented JSON array, going through a
// temp file so a crashed run never leaves a truncated snapshot behind.
func SaveSnapshot(markets []types.RawMarket, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if markets == nil {
		markets = []types.RawMarket{}
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	encErr := enc.Encode(markets)
	closeErr := tmp.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encoding snapshot: %w", encErr)
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

// LoadSnapshot reads a previously saved market snapshot.
func LoadSnapshot(path string) ([]types.RawMarket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var markets []types.RawMarket
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return markets, nil
}
