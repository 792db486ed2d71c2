// Package acquire downloads arXiv LaTeX sources, flattens them, and parses
// them into section-structured checkpoint records.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/sota-agent/internal/latex"
	"github.com/pdiddy/sota-agent/internal/scan"
	"github.com/pdiddy/sota-agent/pkg/types"
)

// BatchResult holds the outcome of a batch acquisition run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Papers     []*types.Paper
}

// Total returns the total number of candidates processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AcquirePaper downloads one paper's LaTeX source, merges API metadata into
// the candidate record's fields, flattens and parses the source, and writes
// the checkpoint JSON. An existing checkpoint is loaded instead (skipped is
// true in that case). Parse-stage warnings (missing inputs, cycles) are
// written to w and do not fail the paper.
func AcquirePaper(ctx context.Context, client *http.Client, rec scan.Record, cfg types.AcquisitionConfig, w io.Writer) (paper *types.Paper, skipped bool, err error) {
	arxivID := rec.ID
	checkpoint := CheckpointPath(cfg.ParsedDir, arxivID)

	if _, statErr := os.Stat(checkpoint); statErr == nil {
		p, loadErr := LoadPaper(checkpoint)
		if loadErr != nil {
			return nil, false, loadErr
		}
		// Backfill snapshot fields the checkpoint may predate.
		if p.Metadata["title"] == "" && rec.Title != "" {
			p.Metadata["title"] = rec.Title
		}
		fmt.Fprintf(w, "skipped: %s (already parsed)\n", arxivID)
		return p, true, nil
	}

	sourceDir := filepath.Join(cfg.SourcesDir, Slug(arxivID))
	fmt.Fprintf(w, "downloading: %s\n", arxivID)

	if err := downloadSource(ctx, client, arxivID, sourceDir, cfg); err != nil {
		return nil, false, err
	}
	if !cfg.KeepSources {
		defer os.RemoveAll(sourceDir)
	}

	meta := rec.Metadata()
	if err := fetchArxivMetadata(ctx, client, arxivID, meta, cfg); err != nil {
		fmt.Fprintf(w, "  warning: arXiv metadata fetch failed: %v\n", err)
	}

	mainTex, err := FindMainTex(sourceDir)
	if err != nil {
		return nil, false, fmt.Errorf("locating main file for %s: %w", arxivID, err)
	}

	text, err := latex.ReadTexFile(mainTex)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", mainTex, err)
	}

	text = latex.StripComments(text)
	flattened, warnings := latex.ResolveInputs(text, filepath.Dir(mainTex))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}

	p := &types.Paper{
		ArxivID:    arxivID,
		Metadata:   meta,
		Sections:   latex.ParseSections(flattened),
		ParsedDate: time.Now().UTC(),
	}
	if cfg.KeepSources {
		p.SourcePath = mainTex
	}

	if err := SavePaper(p, checkpoint); err != nil {
		return nil, false, err
	}
	if err := SaveMetadataYAML(p, MetadataPath(cfg.ParsedDir, arxivID)); err != nil {
		fmt.Fprintf(w, "  warning: %v\n", err)
	}

	fmt.Fprintf(w, "parsed: %s (%d sections)\n", arxivID, len(p.Sections))
	return p, false, nil
}

// AcquireBatch processes candidate records sequentially, printing per-item
// status and returning a summary. Previously failed IDs are skipped; new
// failures are recorded so later runs skip them too. Downloads are spaced by
// the configured delay. The batch continues after individual failures.
func AcquireBatch(ctx context.Context, client *http.Client, records []scan.Record, cfg types.AcquisitionConfig, w io.Writer) (BatchResult, error) {
	failed, err := LoadFailed(cfg.ParsedDir)
	if err != nil {
		return BatchResult{}, err
	}

	if cfg.MaxDownloads >= 0 && len(records) > cfg.MaxDownloads {
		records = records[:cfg.MaxDownloads]
	}

	limit := rate.Inf
	if cfg.DownloadDelay > 0 {
		limit = rate.Every(cfg.DownloadDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var result BatchResult
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if failed[rec.ID] {
			fmt.Fprintf(w, "skipped: %s (previously failed)\n", rec.ID)
			result.Skipped++
			continue
		}

		// Checkpointed papers load without touching the network, so the
		// throttle only applies to real downloads.
		if _, statErr := os.Stat(CheckpointPath(cfg.ParsedDir, rec.ID)); statErr != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		paper, wasSkipped, err := AcquirePaper(ctx, client, rec, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", rec.ID, err)
			failed[rec.ID] = true
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Papers = append(result.Papers, paper)
	}

	if err := SaveFailed(cfg.ParsedDir, failed); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nAcquisition complete: %d downloaded, %d skipped, %d failed\n",
		result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}

// LoadParsed reads every checkpoint JSON in parsedDir, returning the papers
// in directory order. Unreadable checkpoints are reported to w and skipped.
func LoadParsed(parsedDir string, w io.Writer) ([]*types.Paper, error) {
	entries, err := os.ReadDir(parsedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading parsed directory %s: %w", parsedDir, err)
	}

	var papers []*types.Paper
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || name == failedFile {
			continue
		}
		p, err := LoadPaper(filepath.Join(parsedDir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}
