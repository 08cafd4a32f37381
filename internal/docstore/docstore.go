// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore abstracts where instruction documents and generated
// reports live. The filesystem implementation keeps three directories:
// pending instructions, processed instructions, and reports.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store reads instruction documents and writes generated documents.
type Store interface {
	// FetchText returns the text content of the document at locator.
	FetchText(locator string) (string, error)

	// CreateDocument writes content under dir as name.md, deduplicating
	// the filename if it already exists. Returns the locator of the
	// created document.
	CreateDocument(dir, name, content string) (string, error)

	// Move relocates a document into destDir, keeping its base name.
	// Returns the new locator.
	Move(locator, destDir string) (string, error)
}

// FSStore is the local-filesystem Store.
type FSStore struct{}

// NewFSStore returns a filesystem-backed document store.
func NewFSStore() *FSStore {
	return &FSStore{}
}

// FetchText reads the document at locator.
func (s *FSStore) FetchText(locator string) (string, error) {
	data, err := os.ReadFile(locator)
	if err != nil {
		return "", fmt.Errorf("fetching document: %w", err)
	}
	return string(data), nil
}

// CreateDocument writes content to dir/name.md. If that path is taken, a
// short random suffix is appended rather than overwriting. The write goes
// through a temp file and rename so readers never see partial content.
func (s *FSStore) CreateDocument(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating document dir: %w", err)
	}

	base := sanitizeName(name)
	path := filepath.Join(dir, base+".md")
	if _, err := os.Stat(path); err == nil {
		path = filepath.Join(dir, base+"_"+uuid.NewString()[:8]+".md")
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating document: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("placing document: %w", err)
	}
	return path, nil
}

// Move relocates a document into destDir.
func (s *FSStore) Move(locator, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating destination dir: %w", err)
	}
	dest := filepath.Join(destDir, filepath.Base(locator))
	if err := os.Rename(locator, dest); err != nil {
		return "", fmt.Errorf("moving document: %w", err)
	}
	return dest, nil
}

// sanitizeName makes a string safe to use as a filename.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}
