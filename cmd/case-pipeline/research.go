// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/case-pipeline/internal/report"
	"github.com/pdiddy/case-pipeline/internal/research"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <instruction text>",
	Short: "Run an ad-hoc research aggregation without queueing",
	Long: `Research runs the aggregation engine directly on the given instruction
text and prints the rendered report to stdout. Nothing is recorded in the
tracking store. Useful for trying out instructions before queueing them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	text := args[0]
	category, _ := cmd.Flags().GetString("category")
	dateRange, _ := cmd.Flags().GetString("date-range")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	savePath, _ := cmd.Flags().GetString("save")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := pipelineConfig()
	agg := newAggregator(cfg.Research)

	start := time.Now()
	result, err := agg.Research(cmd.Context(), text, maxResults, dateRange, category)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := research.WriteResultFile(savePath, result); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved result to", savePath)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	instr := types.Instruction{ID: "adhoc", Category: category, Text: text, SourceFilename: "(command line)"}
	fmt.Print(report.Render(result, instr, time.Since(start), time.Now()))
	return nil
}

func init() {
	researchCmd.Flags().String("category", "", "instruction category, used in query expansion")
	researchCmd.Flags().String("date-range", "", "free-form date range recorded in the result metadata")
	researchCmd.Flags().Int("max-results", 10, "maximum number of cases to return")
	researchCmd.Flags().String("save", "", "also save the raw result as YAML to this path")
	researchCmd.Flags().Bool("json", false, "output the raw result as JSON instead of a report")

	rootCmd.AddCommand(researchCmd)
}
