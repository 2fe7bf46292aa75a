// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arb-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arb-engine/internal/match"
	"github.com/pdiddy/arb-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultDataDir   = "data"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "arb-engine/0.1"

	matchesFile       = "matches.json"
	opportunitiesFile = "opportunities.json"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the arb-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "arb-engine",
	Short: "Cross-venue prediction market linkage and arbitrage scanning",
	Long: `arb-engine links equivalent prediction markets across Kalshi and Polymarket
and scans the linked pairs for arbitrage.

Each pipeline stage is a subcommand: fetch downloads market catalogs, match
links equivalent markets, scan prices the linked pairs against live quotes,
and run drives the full cycle on a schedule. history queries past match runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arb-engine.yaml or ~/.config/arb-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arb-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arb-engine"))
		}
	}

	viper.SetEnvPrefix("ARB_ENGINE")
	viper.AutomaticEnv()

	// Every stage option is resolvable through viper, so config-file and
	// ARB_ENGINE_* env lookups need the same defaults the flags advertise.
	for key, value := range map[string]any{
		"data_dir":            defaultDataDir,
		"timeout":             defaultTimeout,
		"page_delay":          time.Duration(0),
		"page_limit":          500,
		"kalshi_api_key":      "",
		"score_cutoff":        match.DefaultScoreCutoff,
		"max_time_diff_hours": match.DefaultMaxTimeDiffHours,
		"workers":             0,
		"quote_delay":         100 * time.Millisecond,
		"min_profit_pct":      0.5,
		"max_profit_pct":      25.0,
		"max_alerts":          10,
		"discord_webhook":     "",
		"data_interval":       12 * time.Hour,
		"scan_interval":       10 * time.Minute,
	} {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// The option helpers resolve one stage setting each: an explicitly set flag
// wins, then the viper value (ARB_ENGINE_* env var or config file), then the
// flag default.

func optionString(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func optionFloat(cmd *cobra.Command, flag, key string) float64 {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetFloat64(flag)
		return v
	}
	return viper.GetFloat64(key)
}

func optionInt(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}

func optionDuration(cmd *cobra.Command, flag, key string) time.Duration {
	if cmd.Flags().Changed(flag) || !viper.IsSet(key) {
		v, _ := cmd.Flags().GetDuration(flag)
		return v
	}
	return viper.GetDuration(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
