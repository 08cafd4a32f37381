// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/case-pipeline/internal/queue"
	"github.com/pdiddy/case-pipeline/internal/tracking"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the instruction queue",
	Long: `Queue manages the tracking store behind the pipeline. Use subcommands to
register instruction documents, inspect queue state, or reopen a failed
record for another round of attempts.`,
}

// --- add subcommand ---

var queueAddCmd = &cobra.Command{
	Use:   "add <instruction-id> <document>",
	Short: "Register an instruction document for processing",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueueAdd,
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	id, locator := args[0], args[1]
	if _, err := os.Stat(locator); err != nil {
		return fmt.Errorf("instruction document %s: %w", locator, err)
	}

	store, err := tracking.Open(pipelineConfig().Tracking.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Add(cmd.Context(), id, locator); err != nil {
		return err
	}
	fmt.Printf("Queued %s (%s)\n", id, locator)
	return nil
}

// --- list subcommand ---

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queue records and their status",
	RunE:  runQueueList,
}

func runQueueList(cmd *cobra.Command, args []string) error {
	store, err := tracking.Open(pipelineConfig().Tracking.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("Queue is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-10s  %-6s  %-7s  %s\n", "ID", "Status", "Cases", "Retries", "Report")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, rec := range records {
		fmt.Fprintf(os.Stdout, "%-16s  %-10s  %-6d  %-7d  %s\n",
			rec.ID, rec.Status, rec.CasesFound, rec.RetryCount, rec.ResultLocation)
	}
	return nil
}

// --- retry subcommand ---

var queueRetryCmd = &cobra.Command{
	Use:   "retry <instruction-id>",
	Short: "Reopen a failed record for another round of attempts",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueRetry,
}

func runQueueRetry(cmd *cobra.Command, args []string) error {
	id := args[0]
	store, err := tracking.Open(pipelineConfig().Tracking.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != types.StatusFailed {
		return fmt.Errorf("record %s is %s, only Failed records can be reopened", id, rec.Status)
	}

	err = store.Update(ctx, id, map[string]any{
		queue.FieldStatus:        string(types.StatusPending),
		queue.FieldRetryCount:    0,
		queue.FieldErrorMessage:  "",
		queue.FieldLastErrorTime: "",
	})
	if err != nil {
		return err
	}
	fmt.Printf("Reopened %s\n", id)
	return nil
}

func init() {
	queueListCmd.Flags().Bool("json", false, "output records as JSON")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueRetryCmd)
	rootCmd.AddCommand(queueCmd)
}
