// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// Enrichment defaults for fields the source left empty.
const (
	defaultTitle       = "Untitled Case"
	defaultDescription = "No description available"
	defaultSource      = "Source not available"
	defaultDate        = "Recent"
	placeholderPoint   = "Details from source"
)

// Key points must be full sentences, not fragments or walls of text.
const (
	minKeyPointLen = 20
	maxKeyPointLen = 200
)

// Enrich turns a finding into a complete case. It is a total function:
// missing fields get defaults, missing key points are derived from the
// original description (or a single placeholder when there is nothing to
// derive from), and the quality score is recomputed on the final fields so
// it reflects the enriched record, not the raw input.
func Enrich(f types.Finding, maxKeyPoints int) types.Case {
	enriched := f

	if len(enriched.KeyPoints) == 0 {
		if f.Description != "" {
			enriched.KeyPoints = KeyPoints(f.Description, maxKeyPoints)
		}
		if len(enriched.KeyPoints) == 0 {
			enriched.KeyPoints = []string{placeholderPoint}
		}
	}
	if enriched.Title == "" {
		enriched.Title = defaultTitle
	}
	if enriched.Description == "" {
		enriched.Description = defaultDescription
	}
	if enriched.Source == "" {
		enriched.Source = defaultSource
	}
	if enriched.Date == "" {
		enriched.Date = defaultDate
	}

	return types.Case{
		Title:        enriched.Title,
		Description:  enriched.Description,
		Source:       enriched.Source,
		Date:         enriched.Date,
		KeyPoints:    enriched.KeyPoints,
		QualityScore: Score(enriched),
	}
}

// KeyPoints splits text on sentence-terminal punctuation and keeps trimmed
// fragments strictly between 20 and 200 characters long, in order, up to
// max entries.
func KeyPoints(text string, max int) []string {
	if text == "" || max <= 0 {
		return nil
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var points []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > minKeyPointLen && len(s) < maxKeyPointLen {
			points = append(points, s)
			if len(points) >= max {
				break
			}
		}
	}
	return points
}
