// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the case-pipeline:
// parsed instructions, candidate findings, enriched cases, research
// results, and queue records, plus the per-stage configuration structs.
package types

import "time"

// Finding is one raw candidate returned by a search backend for a single
// query. Duplicates across queries are expected at this stage; the
// deduplication pass removes them.
type Finding struct {
	// Title is the candidate headline as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Description is the snippet or summary text. May be empty.
	Description string `json:"description" yaml:"description"`

	// Source is the URL the candidate was found at.
	Source string `json:"source" yaml:"source"`

	// Date is a free-form date string; "Recent" when the source gives none.
	Date string `json:"date" yaml:"date"`

	// KeyPoints are bullet points derived from the description, in order.
	KeyPoints []string `json:"key_points,omitempty" yaml:"key_points,omitempty"`
}

// Case is a Finding after enrichment. Every field is guaranteed non-empty
// and KeyPoints holds at least one entry.
type Case struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Source      string `json:"source" yaml:"source"`
	Date        string `json:"date" yaml:"date"`

	// WhyQualifies is an optional analyst note explaining how the case
	// meets the instruction criteria. Report rendering substitutes a
	// placeholder when empty.
	WhyQualifies string `json:"why_qualifies,omitempty" yaml:"why_qualifies,omitempty"`

	KeyPoints []string `json:"key_points" yaml:"key_points"`

	// QualityScore is the structural-completeness score (0 to 7.0),
	// recomputed after enrichment. It is a ranking heuristic, not a
	// relevance judgment.
	QualityScore float64 `json:"quality_score" yaml:"quality_score"`
}

// ResearchResult is the output of one aggregation run. It is constructed
// once per processing attempt and not mutated afterwards.
type ResearchResult struct {
	// Cases holds at most the requested number of enriched cases, in
	// descending quality order (ties keep encounter order).
	Cases []Case `json:"cases" yaml:"cases"`

	// TotalCases equals len(Cases).
	TotalCases int `json:"total_cases" yaml:"total_cases"`

	// Query echoes the instruction text that drove the run.
	Query string `json:"research_query" yaml:"research_query"`

	// Category echoes the instruction category.
	Category string `json:"category" yaml:"category"`

	Metadata ResearchMetadata `json:"metadata" yaml:"metadata"`
}

// ResearchMetadata records how a result was produced.
type ResearchMetadata struct {
	DateRange      string    `json:"date_range,omitempty" yaml:"date_range,omitempty"`
	MaxResults     int       `json:"max_results" yaml:"max_results"`
	QueriesUsed    []string  `json:"queries_used,omitempty" yaml:"queries_used,omitempty"`
	TotalFindings  int       `json:"total_findings" yaml:"total_findings"`
	UniqueFindings int       `json:"unique_findings" yaml:"unique_findings"`
	Timestamp      time.Time `json:"research_timestamp" yaml:"research_timestamp"`

	// Note carries a human-readable remark for degenerate runs, e.g. an
	// empty instruction text.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}
