// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package instruction parses free-text research instruction documents into
// structured records. Parsing never fails: malformed input degrades to
// defaults, and callers branch on Instruction.Actionable instead of
// handling errors.
package instruction

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// ErrMissingID marks an instruction that parsed without the required ID.
// It is the only precondition failure the parser's callers report.
var ErrMissingID = errors.New("invalid instruction: no instruction id found")

// keyLine matches a "KEY: value" line. Keys are matched case-insensitively;
// the instruction body terminator additionally requires all-caps (see
// bodyEnd).
var keyLine = regexp.MustCompile(`^([A-Za-z_]+):[ \t]*(.*)$`)

// bodyEnd matches an all-caps "KEY:" line that terminates the multi-line
// instruction body.
var bodyEnd = regexp.MustCompile(`^[A-Z_]+:`)

const (
	defaultPriority   = "Normal"
	defaultMaxResults = 10
	defaultPrefix     = "RESEARCH_"
)

// Parse extracts an Instruction from rawText. Scalar fields take the first
// matching "KEY: value" line; the instruction body is the run of lines
// after an "INSTRUCTION:" marker up to the next all-caps key line or end of
// text. Every field except ID falls back to its default.
func Parse(rawText, filename string) types.Instruction {
	instr := types.Instruction{
		Priority:       defaultPriority,
		MaxResults:     defaultMaxResults,
		FilenamePrefix: defaultPrefix,
		SourceFilename: filename,
	}

	lines := strings.Split(strings.ReplaceAll(rawText, "\r\n", "\n"), "\n")

	seen := make(map[string]bool)
	for i, line := range lines {
		m := keyLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])

		if key == "instruction" && instr.Text == "" {
			instr.Text = parseBody(value, lines[i+1:])
			continue
		}

		if value == "" || seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case "instruction_id":
			instr.ID = value
		case "category":
			instr.Category = value
		case "category_id":
			instr.CategoryID = value
		case "priority":
			instr.Priority = value
		case "date_range":
			instr.DateRange = value
		case "max_results":
			if n, err := strconv.Atoi(value); err == nil && n >= 1 {
				instr.MaxResults = n
			}
		case "filename_prefix":
			instr.FilenamePrefix = value
		}
	}

	return instr
}

// parseBody joins the body lines following an INSTRUCTION: marker,
// stopping at the next all-caps key line. Text trailing the marker on the
// same line is included.
func parseBody(firstLine string, rest []string) string {
	body := []string{}
	if firstLine != "" {
		body = append(body, firstLine)
	}
	for _, line := range rest {
		if bodyEnd.MatchString(strings.TrimSpace(line)) {
			break
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
