// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package instruction

import (
	"strings"
	"testing"
)

const fullDoc = `INSTRUCTION_ID: INS-042
CATEGORY: Corporate Leadership
CATEGORY_ID: CL-7
PRIORITY: High
INSTRUCTION:
Find recent cases of corporate drama where a CEO faced
an impossible choice between survival and core values.
SEARCH_PARAMETERS:
date_range: Last 6 months
max_results: 5
OUTPUT_CONFIG:
filename_prefix: DRAMA_
`

func TestParseFullDocument(t *testing.T) {
	instr := Parse(fullDoc, "instruction.txt")

	if instr.ID != "INS-042" {
		t.Errorf("ID = %q, want INS-042", instr.ID)
	}
	if instr.Category != "Corporate Leadership" {
		t.Errorf("Category = %q", instr.Category)
	}
	if instr.CategoryID != "CL-7" {
		t.Errorf("CategoryID = %q", instr.CategoryID)
	}
	if instr.Priority != "High" {
		t.Errorf("Priority = %q, want High", instr.Priority)
	}
	if !strings.HasPrefix(instr.Text, "Find recent cases") || !strings.HasSuffix(instr.Text, "core values.") {
		t.Errorf("Text = %q", instr.Text)
	}
	if strings.Contains(instr.Text, "SEARCH_PARAMETERS") {
		t.Errorf("body should stop at the next all-caps key, got %q", instr.Text)
	}
	if instr.DateRange != "Last 6 months" {
		t.Errorf("DateRange = %q", instr.DateRange)
	}
	if instr.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", instr.MaxResults)
	}
	if instr.FilenamePrefix != "DRAMA_" {
		t.Errorf("FilenamePrefix = %q, want DRAMA_", instr.FilenamePrefix)
	}
	if instr.SourceFilename != "instruction.txt" {
		t.Errorf("SourceFilename = %q", instr.SourceFilename)
	}
	if !instr.Actionable() {
		t.Error("instruction with an ID should be actionable")
	}
}

func TestParseDefaults(t *testing.T) {
	instr := Parse("INSTRUCTION_ID: X-1\nINSTRUCTION:\nsomething\n", "f")

	if instr.Priority != "Normal" {
		t.Errorf("Priority = %q, want Normal", instr.Priority)
	}
	if instr.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", instr.MaxResults)
	}
	if instr.FilenamePrefix != "RESEARCH_" {
		t.Errorf("FilenamePrefix = %q, want RESEARCH_", instr.FilenamePrefix)
	}
	if instr.DateRange != "" {
		t.Errorf("DateRange = %q, want empty", instr.DateRange)
	}
}

func TestParseMissingID(t *testing.T) {
	instr := Parse("INSTRUCTION:\ndo some research\n", "f")

	if instr.Actionable() {
		t.Error("instruction without an ID must not be actionable")
	}
	if instr.Text != "do some research" {
		t.Errorf("Text = %q", instr.Text)
	}
}

func TestParseKeysCaseInsensitive(t *testing.T) {
	instr := Parse("instruction_id: low-1\nCategory: Tech\n", "f")

	if instr.ID != "low-1" {
		t.Errorf("ID = %q, want low-1", instr.ID)
	}
	if instr.Category != "Tech" {
		t.Errorf("Category = %q, want Tech", instr.Category)
	}
}

func TestParseNumericFallback(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"not a number", "lots", 10},
		{"zero", "0", 10},
		{"negative", "-3", 10},
		{"valid", "7", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instr := Parse("INSTRUCTION_ID: N-1\nmax_results: "+tt.value+"\n", "f")
			if instr.MaxResults != tt.want {
				t.Errorf("MaxResults = %d, want %d", instr.MaxResults, tt.want)
			}
		})
	}
}

func TestParseFirstMatchWins(t *testing.T) {
	instr := Parse("INSTRUCTION_ID: first\nINSTRUCTION_ID: second\n", "f")
	if instr.ID != "first" {
		t.Errorf("ID = %q, want first", instr.ID)
	}
}

func TestParseBodyRunsToEndOfText(t *testing.T) {
	instr := Parse("INSTRUCTION_ID: B-1\nINSTRUCTION:\nline one\nline two", "f")
	if instr.Text != "line one\nline two" {
		t.Errorf("Text = %q", instr.Text)
	}
}

func TestParseBodyInlineMarkerText(t *testing.T) {
	instr := Parse("INSTRUCTION_ID: B-2\nINSTRUCTION: inline directive\n", "f")
	if instr.Text != "inline directive" {
		t.Errorf("Text = %q", instr.Text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	instr := Parse("", "empty.txt")
	if instr.Actionable() {
		t.Error("empty input must not be actionable")
	}
	if instr.MaxResults != 10 || instr.Priority != "Normal" {
		t.Errorf("defaults not applied: %+v", instr)
	}
}
