// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"math"
	"sort"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// Score weights. The score is purely a function of structural
// completeness; relevance filtering happens upstream in query formulation
// or downstream in human review. The maximum attainable score is 7.0.
const (
	titleWeight       = 1.0
	descriptionWeight = 1.0
	descriptionBonus  = 2.0 // cap on the length bonus
	sourceWeight      = 1.0
	dateWeight        = 0.5
	keyPointWeight    = 0.3
	keyPointBonus     = 1.5 // cap on the key-point bonus

	// MaxScore is the highest quality score a finding can attain.
	MaxScore = titleWeight + descriptionWeight + descriptionBonus + sourceWeight + dateWeight + keyPointBonus
)

// Score computes the structural-completeness quality score of a finding.
// Longer descriptions and more extracted key points raise the score, each
// with a cap.
func Score(f types.Finding) float64 {
	score := 0.0
	if f.Title != "" {
		score += titleWeight
	}
	if f.Description != "" {
		score += descriptionWeight
		score += math.Min(float64(len(f.Description))/500, descriptionBonus)
	}
	if f.Source != "" {
		score += sourceWeight
	}
	if f.Date != "" {
		score += dateWeight
	}
	if n := len(f.KeyPoints); n > 0 {
		score += math.Min(keyPointWeight*float64(n), keyPointBonus)
	}
	return score
}

// Rank returns the top limit findings in descending score order. The sort
// is stable, so ties keep their original encounter order. The input slice
// is not modified.
func Rank(findings []types.Finding, limit int) []types.Finding {
	type scored struct {
		finding types.Finding
		score   float64
	}

	ranked := make([]scored, len(findings))
	for i, f := range findings {
		ranked[i] = scored{finding: f, score: Score(f)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]types.Finding, len(ranked))
	for i, s := range ranked {
		out[i] = s.finding
	}
	return out
}
