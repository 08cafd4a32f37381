// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/case-pipeline/pkg/types"
)

// WriteResultFile saves a research result to a YAML file so a report can
// be regenerated later without re-querying the search capability.
func WriteResultFile(path string, result types.ResearchResult) error {
	data, err := yaml.Marshal(&result)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved research result from disk.
func ReadResultFile(path string) (*types.ResearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var result types.ResearchResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &result, nil
}
