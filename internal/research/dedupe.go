// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"unicode"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// Dedupe removes duplicate findings in a single greedy pass, keeping the
// first occurrence. A finding is kept only when its normalized title has
// not been seen and, if it carries a URL, the URL has not been seen either.
// Findings whose title normalizes to nothing are dropped as noise: they
// cannot be deduplicated safely.
func Dedupe(findings []types.Finding) []types.Finding {
	seenTitles := make(map[string]struct{})
	seenURLs := make(map[string]struct{})

	var unique []types.Finding
	for _, f := range findings {
		key := normalizeTitle(f.Title)
		if key == "" {
			continue
		}
		if _, dup := seenTitles[key]; dup {
			continue
		}
		if f.Source != "" {
			if _, dup := seenURLs[f.Source]; dup {
				continue
			}
		}

		unique = append(unique, f)
		seenTitles[key] = struct{}{}
		if f.Source != "" {
			seenURLs[f.Source] = struct{}{}
		}
	}
	return unique
}

// normalizeTitle lowercases the title and strips every rune that is not a
// letter or digit.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
