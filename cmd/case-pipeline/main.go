// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the case-pipeline CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/case-pipeline/internal/research"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the case-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "case-pipeline",
	Short: "Automated case research pipeline",
	Long: `case-pipeline turns queued research instructions into structured case
reports. Instructions are plain-text documents describing what to research;
the pipeline parses them, runs bounded web research, deduplicates and ranks
the findings, and writes a Markdown report per instruction.

Use "queue" to manage the instruction queue, "run" to process it, and
"research" for an ad-hoc aggregation without queueing.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./case-pipeline.yaml or ~/.config/case-pipeline/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("case-pipeline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "case-pipeline"))
		}
	}

	viper.SetEnvPrefix("CASE_PIPELINE")
	viper.AutomaticEnv()

	viper.SetDefault("research.timeout", "10s")
	viper.SetDefault("research.user_agent", "case-pipeline/"+version)
	viper.SetDefault("research.max_queries", 2)
	viper.SetDefault("research.results_per_query", 5)
	viper.SetDefault("research.inter_query_delay", "1s")
	viper.SetDefault("research.max_key_points", 5)
	viper.SetDefault("queue.max_retries", 3)
	viper.SetDefault("queue.max_error_length", 500)
	viper.SetDefault("tracking.db_path", "data/queue.db")
	viper.SetDefault("docs.pending_dir", "docs/pending")
	viper.SetDefault("docs.processed_dir", "docs/processed")
	viper.SetDefault("docs.reports_dir", "docs/reports")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configs from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("research.timeout"),
				UserAgent: viper.GetString("research.user_agent"),
			},
			MaxQueries:      viper.GetInt("research.max_queries"),
			ResultsPerQuery: viper.GetInt("research.results_per_query"),
			InterQueryDelay: viper.GetDuration("research.inter_query_delay"),
			MaxKeyPoints:    viper.GetInt("research.max_key_points"),
		},
		Queue: types.QueueConfig{
			MaxRetries:     viper.GetInt("queue.max_retries"),
			MaxErrorLength: viper.GetInt("queue.max_error_length"),
		},
		Tracking: types.TrackingConfig{
			DBPath: viper.GetString("tracking.db_path"),
		},
		Docs: types.DocStoreConfig{
			PendingDir:   viper.GetString("docs.pending_dir"),
			ProcessedDir: viper.GetString("docs.processed_dir"),
			ReportsDir:   viper.GetString("docs.reports_dir"),
		},
	}
}

// newAggregator wires the configured search backend into an aggregator.
func newAggregator(cfg types.ResearchConfig) *research.Aggregator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	searcher := &research.DuckDuckGoBackend{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: cfg.UserAgent,
	}
	return research.NewAggregator(searcher, cfg, os.Stderr)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
