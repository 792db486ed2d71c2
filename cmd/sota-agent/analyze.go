// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-agent/internal/acquire"
	"github.com/pdiddy/sota-agent/internal/analyze"
	"github.com/pdiddy/sota-agent/internal/leaderboard"
	"github.com/pdiddy/sota-agent/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract SOTA claims from parsed papers with an LLM",
	Long: `Analyze loads parsed-paper checkpoints, filters them by content
keywords, sends each paper's relevant text to the configured Gemini model
with a JSON-constrained extraction prompt, validates the responses, and
stores the resulting entries in the leaderboard database.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("model", "", "AI model identifier (overrides config)")
	analyzeCmd.Flags().Int("max-calls", 0, "cap on LLM calls this run (0 = use config, -1 = no cap)")
	analyzeCmd.Flags().String("dataset", "", "target dataset (overrides config)")
	analyzeCmd.Flags().String("metric", "", "target metric name (overrides config)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, &cfg.Analysis)

	if err := validateAnalysis(cfg.Analysis); err != nil {
		return err
	}

	papers, err := acquire.LoadParsed(cfg.Acquisition.ParsedDir, os.Stdout)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("no parsed papers in %s (run acquire first?)", cfg.Acquisition.ParsedDir)
	}

	summary, err := analyzeStage(cmd.Context(), papers, cfg)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d paper(s) failed analysis", summary.Failed)
	}
	return nil
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *types.AnalysisConfig) {
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	if maxCalls, _ := cmd.Flags().GetInt("max-calls"); maxCalls != 0 {
		cfg.MaxCalls = maxCalls
	}
	if dataset, _ := cmd.Flags().GetString("dataset"); dataset != "" {
		cfg.Dataset = dataset
	}
	if metric, _ := cmd.Flags().GetString("metric"); metric != "" {
		cfg.MetricName = metric
	}
}

func validateAnalysis(cfg types.AnalysisConfig) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("AI API key required: add gemini-api-key to .secrets/ or set SOTA_AGENT_API_KEY")
	}
	if cfg.Dataset == "" || cfg.MetricName == "" {
		return fmt.Errorf("analysis.dataset and analysis.metric_name are required")
	}
	if len(cfg.PipelineStages) == 0 {
		return fmt.Errorf("analysis.pipeline_stages must not be empty")
	}
	return nil
}

// analyzeStage runs extraction over the given papers and stores validated
// entries. Shared between the analyze and run subcommands.
func analyzeStage(ctx context.Context, papers []*types.Paper, cfg types.PipelineConfig) (analyze.BatchSummary, error) {
	relevant := analyze.FilterByContent(papers, cfg.Analysis.ContentKeywords)
	fmt.Fprintf(os.Stdout, "analyzing %d of %d parsed papers\n", len(relevant), len(papers))

	backend := &analyze.GeminiBackend{
		APIKey: cfg.Analysis.APIKey,
		Model:  cfg.Analysis.Model,
		Client: &http.Client{Timeout: 120 * time.Second},
	}

	results, summary := analyze.AnalyzeBatch(ctx, backend, relevant, cfg.Analysis, os.Stdout)

	store, err := leaderboard.NewStore(cfg.Leaderboard)
	if err != nil {
		return summary, err
	}
	defer store.Close()

	for _, res := range results {
		if !res.OK() {
			continue
		}
		if err := store.Put(ctx, res.Entry); err != nil {
			return summary, err
		}
	}

	return summary, nil
}
