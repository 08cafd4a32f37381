// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "case-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResearchConfig holds settings for the research aggregation stage.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxQueries caps how many planned queries are actually issued per
	// instruction, a bounded-cost guard against upstream rate limits
	// (default 2).
	MaxQueries int `json:"max_queries" yaml:"max_queries"`

	// ResultsPerQuery is the number of findings requested per query (default 5).
	ResultsPerQuery int `json:"results_per_query" yaml:"results_per_query"`

	// InterQueryDelay is the politeness delay between consecutive queries
	// (default 1s). Zero disables the delay.
	InterQueryDelay time.Duration `json:"inter_query_delay" yaml:"inter_query_delay"`

	// MaxKeyPoints caps the key points derived per case during enrichment
	// (default 5).
	MaxKeyPoints int `json:"max_key_points" yaml:"max_key_points"`
}

// QueueConfig holds settings for the instruction lifecycle state machine.
type QueueConfig struct {
	// MaxRetries bounds the processing attempts per instruction (default 3).
	// Once the retry count reaches this bound the record is Failed for good.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxErrorLength truncates recorded error messages (default 500).
	MaxErrorLength int `json:"max_error_length" yaml:"max_error_length"`
}

// TrackingConfig holds settings for the SQLite tracking store.
type TrackingConfig struct {
	// DBPath is the SQLite database file (e.g. "data/queue.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// DocStoreConfig holds the document store locations the pipeline uses.
type DocStoreConfig struct {
	// PendingDir holds instruction documents awaiting processing.
	PendingDir string `json:"pending_dir" yaml:"pending_dir"`

	// ProcessedDir receives instruction documents after a terminal outcome.
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`

	// ReportsDir receives generated research reports.
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Research ResearchConfig `json:"research" yaml:"research"`
	Queue    QueueConfig    `json:"queue" yaml:"queue"`
	Tracking TrackingConfig `json:"tracking" yaml:"tracking"`
	Docs     DocStoreConfig `json:"docs" yaml:"docs"`
}
