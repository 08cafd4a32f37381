// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research implements the research aggregation engine: it expands
// an instruction into search queries, collects candidate findings from an
// injected search capability, deduplicates and ranks them, and enriches
// the survivors into complete case records.
package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// ErrUpstreamUnavailable marks a misconfigured or unreachable collaborator
// capability. Unlike per-query failures, which degrade to zero findings, it
// propagates to the caller.
var ErrUpstreamUnavailable = errors.New("search capability unavailable")

// Searcher is the injected search capability. Implementations turn one
// query string into raw candidate findings; failures are caught by the
// collector, never by the implementation itself.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.Finding, error)
}

// Defaults applied when the corresponding config values are unset.
const (
	defaultMaxQueries      = 2
	defaultResultsPerQuery = 5
	defaultMaxResults      = 10
	defaultMaxKeyPoints    = 5
)

// Aggregator composes the query planner, finding collector, deduplicator,
// ranker, and enricher into the public research entry point.
type Aggregator struct {
	searcher Searcher
	cfg      types.ResearchConfig
	w        io.Writer
	now      func() time.Time
}

// NewAggregator builds an Aggregator. Progress and warning lines are
// written to w; pass io.Discard (or nil) to silence them.
func NewAggregator(searcher Searcher, cfg types.ResearchConfig, w io.Writer) *Aggregator {
	if w == nil {
		w = io.Discard
	}
	return &Aggregator{searcher: searcher, cfg: cfg, w: w, now: time.Now}
}

// Research runs the full aggregation for one instruction: plan, collect
// (bounded), dedupe, rank, enrich. Empty instruction text short-circuits to
// an empty result without touching the search capability. Input-data
// problems never surface as errors; only a missing search capability does.
func (a *Aggregator) Research(ctx context.Context, text string, maxResults int, dateRange, category string) (types.ResearchResult, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	result := types.ResearchResult{
		Query:    text,
		Category: category,
		Metadata: types.ResearchMetadata{
			DateRange:  dateRange,
			MaxResults: maxResults,
			Timestamp:  a.now(),
		},
	}

	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(a.w, "empty instruction text, nothing to search")
		result.Metadata.Note = "empty instruction text"
		return result, nil
	}
	if a.searcher == nil {
		return result, fmt.Errorf("no search backend configured: %w", ErrUpstreamUnavailable)
	}

	queries := PlanQueries(text, category)
	maxQueries := a.cfg.MaxQueries
	if maxQueries <= 0 {
		maxQueries = defaultMaxQueries
	}
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	result.Metadata.QueriesUsed = queries

	findings := a.collect(ctx, queries)
	result.Metadata.TotalFindings = len(findings)

	unique := Dedupe(findings)
	result.Metadata.UniqueFindings = len(unique)
	fmt.Fprintf(a.w, "%d finding(s), %d unique\n", len(findings), len(unique))

	maxKeyPoints := a.cfg.MaxKeyPoints
	if maxKeyPoints <= 0 {
		maxKeyPoints = defaultMaxKeyPoints
	}
	for _, f := range Rank(unique, maxResults) {
		result.Cases = append(result.Cases, Enrich(f, maxKeyPoints))
	}
	result.TotalCases = len(result.Cases)

	return result, nil
}

// collect issues each query in order against the search capability. A
// failed query degrades to zero findings and never aborts the run.
// Between consecutive queries the collector pauses to stay under upstream
// rate limits.
func (a *Aggregator) collect(ctx context.Context, queries []string) []types.Finding {
	perQuery := a.cfg.ResultsPerQuery
	if perQuery <= 0 {
		perQuery = defaultResultsPerQuery
	}

	var all []types.Finding
	for i, q := range queries {
		if i > 0 && a.cfg.InterQueryDelay > 0 {
			select {
			case <-ctx.Done():
				return all
			case <-time.After(a.cfg.InterQueryDelay):
			}
		}

		findings, err := a.searcher.Search(ctx, q, perQuery)
		if err != nil {
			fmt.Fprintf(a.w, "warning: query %q failed: %v\n", q, err)
			continue
		}
		fmt.Fprintf(a.w, "query %d/%d %q: %d finding(s)\n", i+1, len(queries), q, len(findings))
		all = append(all, findings...)
	}
	return all
}
