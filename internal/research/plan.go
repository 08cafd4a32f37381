// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import "strings"

// PlanQueries expands one instruction into an ordered sequence of search
// queries: the instruction verbatim, a category-scoped variant, an
// "examples" variant, and a "recent" variant. Blank entries are dropped.
// Empty instruction text yields no queries. Deterministic for given inputs.
//
// The aggregator caps how many of these are actually issued; the planner
// itself emits the full sequence.
func PlanQueries(text, category string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := []string{text}
	if category != "" {
		candidates = append(candidates, category+" "+text)
	}
	candidates = append(candidates, text+" examples", "recent "+text)

	var queries []string
	for _, q := range candidates {
		if strings.TrimSpace(q) != "" {
			queries = append(queries, q)
		}
	}
	return queries
}
