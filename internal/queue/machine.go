// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queue implements the instruction lifecycle state machine:
// Pending → Processing → {Complete, Failed}, with bounded retries routing
// failed attempts back to Pending until the retry budget runs out. It is
// independent of the research logic and talks to the tracking backend
// through the narrow TrackingStore interface.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// Field names accepted by TrackingStore.Update. They mirror the queue
// record schema.
const (
	FieldStatus           = "status"
	FieldStartedAt        = "started_at"
	FieldCompletedAt      = "completed_at"
	FieldResultID         = "result_id"
	FieldResultLocation   = "result_location"
	FieldCasesFound       = "cases_found"
	FieldProcessingTimeMS = "processing_time_ms"
	FieldErrorMessage     = "error_message"
	FieldRetryCount       = "retry_count"
	FieldLastErrorTime    = "last_error_time"
)

var (
	// ErrNotFound is returned when no queue record exists for an id.
	ErrNotFound = errors.New("queue record not found")

	// ErrAlreadyHandled is returned when claiming a record that is not
	// Pending. It is the idempotency guard against double-processing.
	ErrAlreadyHandled = errors.New("queue record already handled")
)

// TrackingStore is the view of the external tracking backend the state
// machine needs. Timestamps are written as RFC 3339 strings, statuses as
// plain strings, counters as ints.
type TrackingStore interface {
	Get(ctx context.Context, id string) (types.QueueRecord, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	ListPending(ctx context.Context) ([]types.PendingItem, error)
}

// Defaults applied when the corresponding config values are unset.
const (
	defaultMaxRetries     = 3
	defaultMaxErrorLength = 500
)

// Machine applies lifecycle transitions to queue records. It assumes a
// single active claimant: the store is not required to provide atomic
// compare-and-swap, so concurrent claims on the same Pending record must
// be serialized by the caller.
type Machine struct {
	store TrackingStore
	cfg   types.QueueConfig
	now   func() time.Time
}

// NewMachine builds a Machine with defaults filled in.
func NewMachine(store TrackingStore, cfg types.QueueConfig) *Machine {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxErrorLength <= 0 {
		cfg.MaxErrorLength = defaultMaxErrorLength
	}
	return &Machine{store: store, cfg: cfg, now: time.Now}
}

// Claim moves a Pending record to Processing and records the start
// timestamp. A record in any other state returns ErrAlreadyHandled.
func (m *Machine) Claim(ctx context.Context, id string) error {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("claiming %s: %w", id, err)
	}
	if rec.Status != types.StatusPending {
		return fmt.Errorf("claiming %s (status %s): %w", id, rec.Status, ErrAlreadyHandled)
	}

	fields := map[string]any{
		FieldStatus:    string(types.StatusProcessing),
		FieldStartedAt: m.now().UTC().Format(time.RFC3339),
	}
	if err := m.store.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("claiming %s: %w", id, err)
	}
	return nil
}

// Completion holds the result metadata recorded on a successful attempt.
type Completion struct {
	ResultID       string
	ResultLocation string
	CasesFound     int
	ProcessingTime time.Duration
}

// Complete moves a Processing record to Complete and records the
// completion timestamp and result metadata.
func (m *Machine) Complete(ctx context.Context, id string, c Completion) error {
	fields := map[string]any{
		FieldStatus:           string(types.StatusComplete),
		FieldCompletedAt:      m.now().UTC().Format(time.RFC3339),
		FieldResultID:         c.ResultID,
		FieldResultLocation:   c.ResultLocation,
		FieldCasesFound:       c.CasesFound,
		FieldProcessingTimeMS: c.ProcessingTime.Milliseconds(),
	}
	if err := m.store.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("completing %s: %w", id, err)
	}
	return nil
}

// FailAttempt records a failed processing attempt. While retries remain
// the record returns to Pending, eligible for a later attempt; once the
// retry budget is exhausted it becomes Failed for good. The retry count is
// read from the store before incrementing, so it is monotonically
// non-decreasing per id. A Failed record is never reopened: further
// failures only refresh the error fields. Returns the resulting status.
func (m *Machine) FailAttempt(ctx context.Context, id, errMsg string) (types.Status, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failing %s: %w", id, err)
	}

	next := types.StatusPending
	retries := rec.RetryCount + 1
	if retries >= m.cfg.MaxRetries {
		next = types.StatusFailed
	}
	if rec.Status == types.StatusFailed {
		next = types.StatusFailed
		retries = rec.RetryCount
	}

	fields := map[string]any{
		FieldStatus:        string(next),
		FieldErrorMessage:  truncate(errMsg, m.cfg.MaxErrorLength),
		FieldRetryCount:    retries,
		FieldLastErrorTime: m.now().UTC().Format(time.RFC3339),
	}
	if err := m.store.Update(ctx, id, fields); err != nil {
		return "", fmt.Errorf("failing %s: %w", id, err)
	}
	return next, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
