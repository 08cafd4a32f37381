// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner drives the end-to-end pipeline for queued instructions:
// claim, fetch, parse, research, render, record, archive.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/case-pipeline/internal/docstore"
	"github.com/pdiddy/case-pipeline/internal/instruction"
	"github.com/pdiddy/case-pipeline/internal/queue"
	"github.com/pdiddy/case-pipeline/internal/report"
	"github.com/pdiddy/case-pipeline/internal/research"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

// Runner processes pending instructions one at a time.
type Runner struct {
	machine *queue.Machine
	store   queue.TrackingStore
	docs    docstore.Store
	agg     *research.Aggregator
	cfg     types.PipelineConfig
	w       io.Writer
	now     func() time.Time
}

// New builds a Runner. Progress lines are written to w; pass io.Discard
// (or nil) to silence them.
func New(machine *queue.Machine, store queue.TrackingStore, docs docstore.Store, agg *research.Aggregator, cfg types.PipelineConfig, w io.Writer) *Runner {
	if w == nil {
		w = io.Discard
	}
	return &Runner{machine: machine, store: store, docs: docs, agg: agg, cfg: cfg, w: w, now: time.Now}
}

// ProcessNext claims and processes the oldest pending instruction. It
// returns false when the pending queue is empty. A processing failure is
// recorded against the queue record and does not surface as an error; only
// infrastructure failures (tracking store unreachable) do.
func (r *Runner) ProcessNext(ctx context.Context) (bool, error) {
	pending, err := r.store.ListPending(ctx)
	if err != nil {
		return false, fmt.Errorf("listing pending instructions: %w", err)
	}
	if len(pending) == 0 {
		return false, nil
	}
	item := pending[0]

	if err := r.machine.Claim(ctx, item.ID); err != nil {
		if errors.Is(err, queue.ErrAlreadyHandled) {
			fmt.Fprintf(r.w, "skipping %s: already handled\n", item.ID)
			return true, nil
		}
		return false, err
	}
	fmt.Fprintf(r.w, "processing %s\n", item.ID)

	start := r.now()
	if err := r.process(ctx, item); err != nil {
		status, failErr := r.machine.FailAttempt(ctx, item.ID, err.Error())
		if failErr != nil {
			return false, fmt.Errorf("recording failure for %s: %w", item.ID, failErr)
		}
		fmt.Fprintf(r.w, "attempt on %s failed (%s): %v\n", item.ID, status, err)
		if status == types.StatusFailed {
			r.archive(item)
		}
		return true, nil
	}

	fmt.Fprintf(r.w, "completed %s in %s\n", item.ID, r.now().Sub(start).Round(time.Millisecond))
	return true, nil
}

// ProcessAll drains the pending queue, stopping on infrastructure errors
// or context cancellation. Returns the number of claims attempted.
func (r *Runner) ProcessAll(ctx context.Context) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		more, err := r.ProcessNext(ctx)
		if err != nil {
			return n, err
		}
		if !more {
			return n, nil
		}
		n++
	}
}

// process runs one attempt on a claimed instruction.
func (r *Runner) process(ctx context.Context, item types.PendingItem) error {
	start := r.now()

	text, err := r.docs.FetchText(item.Locator)
	if err != nil {
		return fmt.Errorf("fetching instruction document: %w", err)
	}

	instr := instruction.Parse(text, item.Locator)
	if !instr.Actionable() {
		return instruction.ErrMissingID
	}

	result, err := r.agg.Research(ctx, instr.Text, instr.MaxResults, instr.DateRange, instr.Category)
	if err != nil {
		return err
	}

	elapsed := r.now().Sub(start)
	name := report.Filename(instr.FilenamePrefix, instr.ID, r.now())
	content := report.Render(result, instr, elapsed, r.now())

	location, err := r.docs.CreateDocument(r.cfg.Docs.ReportsDir, name, content)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	completion := queue.Completion{
		ResultID:       name,
		ResultLocation: location,
		CasesFound:     result.TotalCases,
		ProcessingTime: elapsed,
	}
	if err := r.machine.Complete(ctx, item.ID, completion); err != nil {
		return fmt.Errorf("recording completion: %w", err)
	}

	// The attempt is already recorded as Complete; a failed archive move
	// only warns.
	r.archive(item)
	return nil
}

// archive moves a finished instruction document out of the pending
// directory. Best effort.
func (r *Runner) archive(item types.PendingItem) {
	if _, err := r.docs.Move(item.Locator, r.cfg.Docs.ProcessedDir); err != nil {
		fmt.Fprintf(r.w, "warning: archiving %s: %v\n", item.ID, err)
	}
}
