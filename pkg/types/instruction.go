// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Instruction is one parsed unit of research work. Parsing is deliberately
// tolerant: every field except ID degrades to a default rather than
// failing, and callers branch on Actionable instead of handling errors.
type Instruction struct {
	// ID is the unique key into the tracking store. Empty means the
	// instruction is not actionable.
	ID string `json:"instruction_id" yaml:"instruction_id"`

	// Category and CategoryID classify the instruction; both may be empty.
	Category   string `json:"category" yaml:"category"`
	CategoryID string `json:"category_id" yaml:"category_id"`

	// Priority is an enum-like label, default "Normal".
	Priority string `json:"priority" yaml:"priority"`

	// Text is the research directive itself.
	Text string `json:"instruction_text" yaml:"instruction_text"`

	// MaxResults is the target case count, at least 1 (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DateRange is a free-form time period hint, default empty.
	DateRange string `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// FilenamePrefix prefixes the generated report name, default "RESEARCH_".
	FilenamePrefix string `json:"filename_prefix" yaml:"filename_prefix"`

	// SourceFilename records where the instruction came from; provenance only.
	SourceFilename string `json:"source_filename,omitempty" yaml:"source_filename,omitempty"`
}

// Actionable reports whether the instruction carries the required ID.
func (i Instruction) Actionable() bool {
	return i.ID != ""
}
