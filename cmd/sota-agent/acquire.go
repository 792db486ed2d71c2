// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sota-agent/internal/acquire"
)

var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Download and parse LaTeX sources for candidate papers",
	Long: `Acquire downloads the LaTeX source archive for each candidate from
arXiv, resolves the main .tex file and its \input includes, segments the
document into cleaned sections, and writes a parsed-paper checkpoint.
Papers with an existing checkpoint or a recorded download failure are
skipped, so interrupted runs resume where they left off.`,
	RunE: runAcquire,
}

func init() {
	acquireCmd.Flags().String("candidates", defaultCandidatesFile, "candidate records produced by scan")
	acquireCmd.Flags().Int("max-downloads", 0, "cap on new downloads (0 = use config, -1 = no cap)")
	acquireCmd.Flags().Duration("delay", 0, "minimum spacing between downloads (default from config)")
	acquireCmd.Flags().Bool("keep-sources", true, "retain extracted source trees after parsing")

	rootCmd.AddCommand(acquireCmd)
}

func runAcquire(cmd *cobra.Command, args []string) error {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}

	if max, _ := cmd.Flags().GetInt("max-downloads"); max != 0 {
		cfg.Acquisition.MaxDownloads = max
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay != 0 {
		cfg.Acquisition.DownloadDelay = delay
	}
	if cmd.Flags().Changed("keep-sources") {
		keep, _ := cmd.Flags().GetBool("keep-sources")
		cfg.Acquisition.KeepSources = keep
	}

	candidatesPath, _ := cmd.Flags().GetString("candidates")
	candidates, err := readCandidates(candidatesPath)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates in %s", candidatesPath)
	}

	client := &http.Client{Timeout: cfg.Acquisition.Timeout}

	result, err := acquire.AcquireBatch(cmd.Context(), client, candidates, cfg.Acquisition, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed acquisition", result.Failed)
	}
	return nil
}
