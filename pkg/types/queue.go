// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status is the lifecycle state of a queue record.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusComplete   Status = "Complete"
	StatusFailed     Status = "Failed"
)

// Terminal reports whether no further automated processing will happen.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// QueueRecord is one tracking-store entry, keyed by instruction ID and
// mutated in place as the instruction moves through its lifecycle.
type QueueRecord struct {
	ID     string `json:"id" yaml:"id"`
	Status Status `json:"status" yaml:"status"`

	// SourceLocator points at the instruction document in the document store.
	SourceLocator string `json:"source_locator,omitempty" yaml:"source_locator,omitempty"`

	StartedAt   time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`

	// ResultID and ResultLocation identify the generated report document.
	ResultID       string `json:"result_id,omitempty" yaml:"result_id,omitempty"`
	ResultLocation string `json:"result_location,omitempty" yaml:"result_location,omitempty"`

	CasesFound       int   `json:"cases_found" yaml:"cases_found"`
	ProcessingTimeMS int64 `json:"processing_time_ms" yaml:"processing_time_ms"`

	ErrorMessage  string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	RetryCount    int       `json:"retry_count" yaml:"retry_count"`
	LastErrorTime time.Time `json:"last_error_time,omitempty" yaml:"last_error_time,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// PendingItem is one entry from a pending-queue listing, in arrival order.
type PendingItem struct {
	ID        string    `json:"id" yaml:"id"`
	Locator   string    `json:"locator" yaml:"locator"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
