package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arb-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the catalog ingestion stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageLimit is the number of markets requested per page
	// (Kalshi and the Polymarket gamma API both cap at 500).
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// PageDelay is the delay between consecutive page requests.
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// DataDir is the directory snapshot files are written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// KalshiAPIKey is an optional API key for authenticated access.
	KalshiAPIKey string `json:"kalshi_api_key,omitempty" yaml:"kalshi_api_key,omitempty"`
}

// MatchConfig holds settings for the record-linkage stage. ScoreCutoff and
// MaxTimeDiffHours are the two externally overridable knobs; everything else
// about the acceptance policy is fixed.
type MatchConfig struct {
	// ScoreCutoff is the minimum text-similarity score a candidate must
	// reach in the scorer (default 80).
	ScoreCutoff float64 `json:"score_cutoff" yaml:"score_cutoff"`

	// MaxTimeDiffHours bounds the end-time distance between the two
	// sides of a candidate pair (default 24).
	MaxTimeDiffHours float64 `json:"max_time_diff_hours" yaml:"max_time_diff_hours"`

	// Workers is the number of goroutines sharding the per-record
	// search-and-score step. Zero means GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`

	// DataDir is the directory snapshots are read from and the match
	// report is written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ScanConfig holds settings for the live-price and arbitrage stage.
type ScanConfig struct {
	HTTPConfig `yaml:",inline"`

	// QuoteDelay is the delay between consecutive price requests.
	QuoteDelay time.Duration `json:"quote_delay" yaml:"quote_delay"`

	// MinProfitPct and MaxProfitPct bound reported opportunities; values
	// above the maximum are treated as data artifacts and dropped.
	MinProfitPct float64 `json:"min_profit_pct" yaml:"min_profit_pct"`
	MaxProfitPct float64 `json:"max_profit_pct" yaml:"max_profit_pct"`

	// MaxAlerts caps webhook notifications per scan.
	MaxAlerts int `json:"max_alerts" yaml:"max_alerts"`

	// WebhookURL is the Discord webhook for alerts; empty disables them.
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`

	// DataDir is the directory the match report is read from and the
	// opportunity report is written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// StoreConfig holds settings for the run-history store.
type StoreConfig struct {
	// DataDir is the base directory; the database lives at
	// DataDir/index/arb.db.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations plus the scheduler cadence.
type PipelineConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`
	Match MatchConfig `json:"match" yaml:"match"`
	Scan  ScanConfig  `json:"scan" yaml:"scan"`
	Store StoreConfig `json:"store" yaml:"store"`

	// DataInterval is how often the fetch+match cycle reruns (default 12h).
	DataInterval time.Duration `json:"data_interval" yaml:"data_interval"`

	// ScanInterval is how often live prices are rescanned (default 10m).
	ScanInterval time.Duration `json:"scan_interval" yaml:"scan_interval"`
}
