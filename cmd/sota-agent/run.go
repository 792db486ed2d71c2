// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-agent/internal/acquire"
	"github.com/pdiddy/sota-agent/internal/leaderboard"
	"github.com/pdiddy/sota-agent/internal/scan"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: scan, acquire, analyze, report",
	Long: `Run executes every stage in sequence against the configured corpus.
Checkpoints make the run resumable: already-parsed papers are not
re-downloaded and previously failed downloads are not retried.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("corpus", "", "path to the arXiv metadata snapshot (overrides config)")
	runCmd.Flags().Int("max-downloads", 0, "cap on new downloads (0 = use config, -1 = no cap)")
	runCmd.Flags().Int("max-calls", 0, "cap on LLM calls (0 = use config, -1 = no cap)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}

	if corpus, _ := cmd.Flags().GetString("corpus"); corpus != "" {
		cfg.Scan.CorpusPath = corpus
	}
	if max, _ := cmd.Flags().GetInt("max-downloads"); max != 0 {
		cfg.Acquisition.MaxDownloads = max
	}
	if maxCalls, _ := cmd.Flags().GetInt("max-calls"); maxCalls != 0 {
		cfg.Analysis.MaxCalls = maxCalls
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateAnalysis(cfg.Analysis); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Stage 1: scan the metadata snapshot.
	fmt.Fprintln(os.Stdout, "== scan ==")
	candidates, summary, err := scan.Corpus(cfg.Scan, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Candidates == 0 {
		return fmt.Errorf("no candidates matched the scan filters")
	}

	// Stage 2: download and parse LaTeX sources.
	fmt.Fprintln(os.Stdout, "\n== acquire ==")
	client := &http.Client{Timeout: cfg.Acquisition.Timeout}
	batch, err := acquire.AcquireBatch(ctx, client, candidates, cfg.Acquisition, os.Stdout)
	if err != nil {
		return err
	}

	// Stage 3: LLM extraction over everything parsed so far, not just this
	// run's downloads, so resumed runs analyze the full checkpoint set.
	fmt.Fprintln(os.Stdout, "\n== analyze ==")
	papers, err := acquire.LoadParsed(cfg.Acquisition.ParsedDir, os.Stdout)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("no parsed papers after acquisition (%d download failures)", batch.Failed)
	}
	analysis, err := analyzeStage(ctx, papers, cfg)
	if err != nil {
		return err
	}

	// Stage 4: render reports.
	fmt.Fprintln(os.Stdout, "\n== report ==")
	store, err := leaderboard.NewStore(cfg.Leaderboard)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.BuildReports(ctx, cfg.Leaderboard, os.Stdout); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\npipeline complete: %d candidates, %d downloaded, %d analyzed, %d failed analysis\n",
		summary.Candidates, batch.Downloaded, analysis.Analyzed, analysis.Failed)
	return nil
}
