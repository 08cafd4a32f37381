// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pdiddy/case-pipeline/internal/queue"
	"github.com/pdiddy/case-pipeline/internal/research"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

// --- fakes ---

type memStore struct {
	records map[string]*types.QueueRecord
	order   []string
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*types.QueueRecord{}}
}

func (s *memStore) add(id, locator string) {
	s.records[id] = &types.QueueRecord{ID: id, Status: types.StatusPending, SourceLocator: locator}
	s.order = append(s.order, id)
}

func (s *memStore) Get(_ context.Context, id string) (types.QueueRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return types.QueueRecord{}, queue.ErrNotFound
	}
	return *rec, nil
}

func (s *memStore) Update(_ context.Context, id string, fields map[string]any) error {
	rec, ok := s.records[id]
	if !ok {
		return queue.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case queue.FieldStatus:
			rec.Status = types.Status(v.(string))
		case queue.FieldResultID:
			rec.ResultID = v.(string)
		case queue.FieldResultLocation:
			rec.ResultLocation = v.(string)
		case queue.FieldCasesFound:
			rec.CasesFound = v.(int)
		case queue.FieldProcessingTimeMS:
			rec.ProcessingTimeMS = v.(int64)
		case queue.FieldErrorMessage:
			rec.ErrorMessage = v.(string)
		case queue.FieldRetryCount:
			rec.RetryCount = v.(int)
		}
	}
	return nil
}

func (s *memStore) ListPending(_ context.Context) ([]types.PendingItem, error) {
	var items []types.PendingItem
	for _, id := range s.order {
		if rec := s.records[id]; rec.Status == types.StatusPending {
			items = append(items, types.PendingItem{ID: id, Locator: rec.SourceLocator})
		}
	}
	return items, nil
}

type memDocs struct {
	texts    map[string]string // locator to content
	created  map[string]string // locator to content
	moved    []string
	moveFail bool
}

func newMemDocs() *memDocs {
	return &memDocs{texts: map[string]string{}, created: map[string]string{}}
}

func (d *memDocs) FetchText(locator string) (string, error) {
	text, ok := d.texts[locator]
	if !ok {
		return "", fmt.Errorf("no document at %s", locator)
	}
	return text, nil
}

func (d *memDocs) CreateDocument(dir, name, content string) (string, error) {
	loc := filepath.Join(dir, name+".md")
	d.created[loc] = content
	return loc, nil
}

func (d *memDocs) Move(locator, destDir string) (string, error) {
	if d.moveFail {
		return "", fmt.Errorf("move failed")
	}
	d.moved = append(d.moved, locator)
	return filepath.Join(destDir, filepath.Base(locator)), nil
}

type stubSearcher struct {
	findings []types.Finding
}

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(context.Context, string, int) ([]types.Finding, error) {
	return s.findings, nil
}

// --- helpers ---

const instructionDoc = `INSTRUCTION_ID: INS-001
CATEGORY: Finance
INSTRUCTION:
Find recent corporate fraud cases.
MAX_RESULTS: 3
`

func testRunner(store *memStore, docs *memDocs, searcher research.Searcher, w *bytes.Buffer) *Runner {
	cfg := types.PipelineConfig{
		Queue: types.QueueConfig{MaxRetries: 3, MaxErrorLength: 500},
		Docs: types.DocStoreConfig{
			PendingDir:   "docs/pending",
			ProcessedDir: "docs/processed",
			ReportsDir:   "docs/reports",
		},
	}
	machine := queue.NewMachine(store, cfg.Queue)
	agg := research.NewAggregator(searcher, types.ResearchConfig{MaxQueries: 2, ResultsPerQuery: 5, MaxKeyPoints: 5}, w)
	return New(machine, store, docs, agg, cfg, w)
}

// --- tests ---

func TestProcessNextHappyPath(t *testing.T) {
	store := newMemStore()
	store.add("INS-001", "docs/pending/ins-001.md")
	docs := newMemDocs()
	docs.texts["docs/pending/ins-001.md"] = instructionDoc
	searcher := &stubSearcher{findings: []types.Finding{
		{Title: "Case One", Description: "A long enough description of the first fraud case here.", Source: "u1", Date: "2026-01-01"},
		{Title: "Case Two", Source: "u2"},
	}}
	var buf bytes.Buffer
	r := testRunner(store, docs, searcher, &buf)

	more, err := r.ProcessNext(context.Background())
	if err != nil {
		t.Fatalf("ProcessNext() error = %v", err)
	}
	if !more {
		t.Fatal("ProcessNext() = false, want true")
	}

	rec := store.records["INS-001"]
	if rec.Status != types.StatusComplete {
		t.Fatalf("Status = %s, want Complete", rec.Status)
	}
	if rec.CasesFound != 2 {
		t.Errorf("CasesFound = %d, want 2", rec.CasesFound)
	}
	if !strings.Contains(rec.ResultLocation, "docs/reports/") {
		t.Errorf("ResultLocation = %q", rec.ResultLocation)
	}
	if len(docs.created) != 1 {
		t.Fatalf("created %d documents, want 1", len(docs.created))
	}
	for loc, content := range docs.created {
		if !strings.Contains(loc, "RESEARCH_") || !strings.Contains(loc, "INS-001") {
			t.Errorf("report locator = %q", loc)
		}
		if !strings.Contains(content, "Case One") {
			t.Error("report content missing case title")
		}
	}
	if len(docs.moved) != 1 || docs.moved[0] != "docs/pending/ins-001.md" {
		t.Errorf("instruction not archived: %v", docs.moved)
	}
}

func TestProcessNextEmptyQueue(t *testing.T) {
	r := testRunner(newMemStore(), newMemDocs(), &stubSearcher{}, &bytes.Buffer{})

	more, err := r.ProcessNext(context.Background())
	if err != nil {
		t.Fatalf("ProcessNext() error = %v", err)
	}
	if more {
		t.Error("empty queue must return false")
	}
}

func TestProcessNextMissingIDRetriesThenFails(t *testing.T) {
	store := newMemStore()
	store.add("INS-BAD", "docs/pending/bad.md")
	docs := newMemDocs()
	docs.texts["docs/pending/bad.md"] = "just some text with no id"
	var buf bytes.Buffer
	r := testRunner(store, docs, &stubSearcher{}, &buf)

	n, err := r.ProcessAll(context.Background())
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("attempts = %d, want 3 (retry budget)", n)
	}

	rec := store.records["INS-BAD"]
	if rec.Status != types.StatusFailed {
		t.Errorf("Status = %s, want Failed", rec.Status)
	}
	if rec.RetryCount != 3 {
		t.Errorf("RetryCount = %d, want 3", rec.RetryCount)
	}
	if !strings.Contains(rec.ErrorMessage, "no instruction id") {
		t.Errorf("ErrorMessage = %q", rec.ErrorMessage)
	}
	if len(docs.moved) != 1 {
		t.Errorf("terminally failed instruction should be archived, moved=%v", docs.moved)
	}
}

func TestProcessNextMissingDocument(t *testing.T) {
	store := newMemStore()
	store.add("INS-001", "docs/pending/gone.md")
	r := testRunner(store, newMemDocs(), &stubSearcher{}, &bytes.Buffer{})

	more, err := r.ProcessNext(context.Background())
	if err != nil {
		t.Fatalf("document fetch failure must be recorded, not returned: %v", err)
	}
	if !more {
		t.Error("ProcessNext() = false, want true")
	}
	if rec := store.records["INS-001"]; rec.Status != types.StatusPending || rec.RetryCount != 1 {
		t.Errorf("record = %+v, want Pending with RetryCount 1", rec)
	}
}

func TestProcessNextEmptyInstructionCompletes(t *testing.T) {
	store := newMemStore()
	store.add("INS-002", "docs/pending/empty.md")
	docs := newMemDocs()
	docs.texts["docs/pending/empty.md"] = "INSTRUCTION_ID: INS-002\n"
	r := testRunner(store, docs, &stubSearcher{}, &bytes.Buffer{})

	if _, err := r.ProcessNext(context.Background()); err != nil {
		t.Fatalf("ProcessNext() error = %v", err)
	}

	rec := store.records["INS-002"]
	if rec.Status != types.StatusComplete {
		t.Errorf("Status = %s, want Complete (empty text is not a failure)", rec.Status)
	}
	if rec.CasesFound != 0 {
		t.Errorf("CasesFound = %d, want 0", rec.CasesFound)
	}
	for _, content := range docs.created {
		if !strings.Contains(content, "No Cases Found") {
			t.Error("report should render the empty branch")
		}
	}
}

func TestProcessAllOrder(t *testing.T) {
	store := newMemStore()
	store.add("INS-001", "docs/pending/a.md")
	store.add("INS-002", "docs/pending/b.md")
	docs := newMemDocs()
	docs.texts["docs/pending/a.md"] = "INSTRUCTION_ID: INS-001\nINSTRUCTION: find things\n"
	docs.texts["docs/pending/b.md"] = "INSTRUCTION_ID: INS-002\nINSTRUCTION: find things\n"
	r := testRunner(store, docs, &stubSearcher{}, &bytes.Buffer{})

	n, err := r.ProcessAll(context.Background())
	if err != nil {
		t.Fatalf("ProcessAll() error = %v", err)
	}
	if n != 2 {
		t.Errorf("attempts = %d, want 2", n)
	}
	for _, id := range []string{"INS-001", "INS-002"} {
		if store.records[id].Status != types.StatusComplete {
			t.Errorf("%s status = %s", id, store.records[id].Status)
		}
	}
	if len(docs.moved) != 2 {
		t.Errorf("both instructions should be archived, moved=%v", docs.moved)
	}
	if !sort.StringsAreSorted(docs.moved) {
		t.Errorf("processed out of arrival order: %v", docs.moved)
	}
}

func TestProcessNextArchiveFailureOnlyWarns(t *testing.T) {
	store := newMemStore()
	store.add("INS-001", "docs/pending/a.md")
	docs := newMemDocs()
	docs.texts["docs/pending/a.md"] = instructionDoc
	docs.moveFail = true
	var buf bytes.Buffer
	r := testRunner(store, docs, &stubSearcher{}, &buf)

	if _, err := r.ProcessNext(context.Background()); err != nil {
		t.Fatalf("ProcessNext() error = %v", err)
	}
	if store.records["INS-001"].Status != types.StatusComplete {
		t.Error("archive failure must not undo completion")
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Error("archive failure should leave a warning")
	}
}
