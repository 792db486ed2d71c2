// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-agent/internal/scan"
)

const defaultCandidatesFile = "data/candidates.json"

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the arXiv metadata snapshot for candidate papers",
	Long: `Scan streams the newline-delimited-JSON arXiv metadata snapshot, applies
the configured category, date, DOI, and keyword filters, and writes the
surviving candidate records to a JSON file for the acquire stage.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("corpus", "", "path to the arXiv metadata snapshot (overrides config)")
	scanCmd.Flags().Int("max-scan", 0, "cap on corpus lines examined (0 = use config, -1 = no cap)")
	scanCmd.Flags().String("out", defaultCandidatesFile, "output path for candidate records")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}

	if corpus, _ := cmd.Flags().GetString("corpus"); corpus != "" {
		cfg.Scan.CorpusPath = corpus
	}
	if maxScan, _ := cmd.Flags().GetInt("max-scan"); maxScan != 0 {
		cfg.Scan.MaxScan = maxScan
	}
	if cfg.Scan.CorpusPath == "" {
		return fmt.Errorf("corpus path required: set scan.corpus_path or pass --corpus")
	}

	candidates, summary, err := scan.Corpus(cfg.Scan, os.Stdout)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if err := writeCandidates(out, candidates); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "wrote %d candidates to %s (%d scanned, %d malformed)\n",
		summary.Candidates, out, summary.Scanned, summary.Malformed)
	return nil
}

func writeCandidates(path string, candidates []scan.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating candidates directory: %w", err)
	}
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling candidates: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func readCandidates(path string) ([]scan.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidates file %s (run scan first?): %w", path, err)
	}
	var candidates []scan.Record
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("parsing candidates file %s: %w", path, err)
	}
	return candidates, nil
}
