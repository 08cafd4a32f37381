// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders research results into Markdown research reports.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// Filename builds the report document name: the instruction's filename
// prefix, the generation date, and the instruction id.
func Filename(prefix, instructionID string, now time.Time) string {
	if prefix == "" {
		prefix = "RESEARCH_"
	}
	return fmt.Sprintf("%s%s_%s", prefix, now.Format("20060102"), instructionID)
}

// Render produces the full Markdown report for a research result.
func Render(result types.ResearchResult, instr types.Instruction, processingTime time.Duration, now time.Time) string {
	var b strings.Builder

	timestamp := now.Format("2006-01-02 15:04:05")
	fmt.Fprintf(&b, "# RESEARCH REPORT\n")
	fmt.Fprintf(&b, "# ===============\n")
	fmt.Fprintf(&b, "# Generated by: Case Pipeline Research Engine\n")
	fmt.Fprintf(&b, "# Instruction ID: %s\n", instr.ID)
	fmt.Fprintf(&b, "# Category: %s\n", instr.Category)
	fmt.Fprintf(&b, "# Generated: %s\n", timestamp)
	fmt.Fprintf(&b, "# Processing Time: %.2f seconds\n", processingTime.Seconds())
	fmt.Fprintf(&b, "# Cases Found: %d\n\n", result.TotalCases)

	fmt.Fprintf(&b, "## Introduction\n\n")
	fmt.Fprintf(&b, "This report presents the findings for the research instruction: %q.\n\n", result.Query)
	fmt.Fprintf(&b, "The research was conducted through strategic query planning, web investigation, deduplication, and quality ranking to surface the most relevant cases.\n\n")
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## Case Studies\n\n")
	if len(result.Cases) == 0 {
		fmt.Fprintf(&b, "### No Cases Found\n\nThe research process did not identify any cases that met the specified criteria after search and validation.\n\n")
	}
	for i, c := range result.Cases {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, c.Title)
		fmt.Fprintf(&b, "**Date:** %s  \n", orNA(c.Date))
		fmt.Fprintf(&b, "**Source:** %s\n\n", orNA(c.Source))
		fmt.Fprintf(&b, "**Description:**\n\n%s\n\n", c.Description)
		why := c.WhyQualifies
		if why == "" {
			why = "No analysis provided."
		}
		fmt.Fprintf(&b, "**Why It Qualifies:**\n\n> %s\n\n", why)
		fmt.Fprintf(&b, "**Key Points:**\n")
		for _, point := range c.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
		fmt.Fprintf(&b, "\n---\n\n")
	}

	fmt.Fprintf(&b, "## Research Methodology\n\n")
	fmt.Fprintf(&b, "Automated web research: %d queries issued, %d findings collected, %d unique after deduplication.\n\n",
		len(result.Metadata.QueriesUsed), result.Metadata.TotalFindings, result.Metadata.UniqueFindings)
	fmt.Fprintf(&b, "**Processing Details:**\n")
	fmt.Fprintf(&b, "- Processing Time: %.1f seconds\n", processingTime.Seconds())
	fmt.Fprintf(&b, "- Research Timestamp: %s\n", researchTimestamp(result, timestamp))
	fmt.Fprintf(&b, "- Instruction File: %s\n", instr.SourceFilename)

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func researchTimestamp(result types.ResearchResult, fallback string) string {
	if !result.Metadata.Timestamp.IsZero() {
		return result.Metadata.Timestamp.Format("2006-01-02 15:04:05")
	}
	return fallback
}
