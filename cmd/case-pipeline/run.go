// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/case-pipeline/internal/docstore"
	"github.com/pdiddy/case-pipeline/internal/queue"
	"github.com/pdiddy/case-pipeline/internal/runner"
	"github.com/pdiddy/case-pipeline/internal/tracking"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process pending instructions from the queue",
	Long: `Run claims the oldest pending instruction, executes the research, writes
the report, and records the outcome in the tracking store. Failed attempts
return to the queue until the retry budget is exhausted.

By default one instruction is processed; use --all to drain the queue.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	cfg := pipelineConfig()

	store, err := tracking.Open(cfg.Tracking.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	machine := queue.NewMachine(store, cfg.Queue)
	r := runner.New(machine, store, docstore.NewFSStore(), newAggregator(cfg.Research), cfg, os.Stderr)

	ctx := cmd.Context()
	if all {
		n, err := r.ProcessAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d instruction(s)\n", n)
		return nil
	}

	more, err := r.ProcessNext(ctx)
	if err != nil {
		return err
	}
	if !more {
		fmt.Println("Queue is empty.")
	}
	return nil
}

func init() {
	runCmd.Flags().Bool("all", false, "process instructions until the queue is empty")

	rootCmd.AddCommand(runCmd)
}
