// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sota-agent/pkg/types"
)

const failedFile = "failed_downloads.json"

// Slug converts an arXiv ID to a filesystem-safe name. Old-style IDs carry
// a slash (e.g. "math/0211159").
func Slug(arxivID string) string {
	return strings.ReplaceAll(arxivID, "/", "_")
}

// CheckpointPath returns the checkpoint JSON path for an arXiv ID.
func CheckpointPath(parsedDir, arxivID string) string {
	return filepath.Join(parsedDir, Slug(arxivID)+".json")
}

// SavePaper writes a parsed paper to its checkpoint JSON file, creating the
// directory if needed.
func SavePaper(p *types.Paper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling paper %s: %w", p.ArxivID, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// MetadataPath returns the human-readable metadata YAML path for an arXiv ID.
func MetadataPath(parsedDir, arxivID string) string {
	return filepath.Join(parsedDir, Slug(arxivID)+".meta.yaml")
}

// SaveMetadataYAML writes the paper's bibliographic metadata as a YAML
// side-file next to the checkpoint, for inspection without parsing the
// full checkpoint JSON.
func SaveMetadataYAML(p *types.Paper, path string) error {
	data, err := yaml.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %s: %w", p.ArxivID, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadPaper reads a checkpoint JSON file back into a Paper. The round trip
// preserves arxiv_id, sections, and parsed_date exactly.
func LoadPaper(path string) (*types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %s: %w", path, err)
	}
	var p types.Paper
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing checkpoint %s: %w", path, err)
	}
	if p.Metadata == nil {
		p.Metadata = types.Metadata{}
	}
	return &p, nil
}

// LoadFailed reads the set of previously failed arXiv IDs. A missing file
// yields an empty set.
func LoadFailed(parsedDir string) (map[string]bool, error) {
	data, err := os.ReadFile(filepath.Join(parsedDir, failedFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("reading failed-downloads file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing failed-downloads file: %w", err)
	}

	failed := make(map[string]bool, len(ids))
	for _, id := range ids {
		failed[id] = true
	}
	return failed, nil
}

// SaveFailed rewrites the failed-ID file as a sorted JSON array.
func SaveFailed(parsedDir string, failed map[string]bool) error {
	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := os.MkdirAll(parsedDir, 0o755); err != nil {
		return fmt.Errorf("creating parsed directory: %w", err)
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling failed IDs: %w", err)
	}
	return os.WriteFile(filepath.Join(parsedDir, failedFile), data, 0o644)
}
