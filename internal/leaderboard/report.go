// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package leaderboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/sota-agent/pkg/types"
)

const (
	csvFile      = "leaderboard.csv"
	markdownFile = "leaderboard.md"
)

// BuildReports renders the stored entries into cfg.OutputDir as both CSV
// and Markdown, ranked by metric descending. Entries whose metric was not
// reported are listed unranked at the end of the Markdown report and
// excluded from the CSV.
func (s *Store) BuildReports(ctx context.Context, cfg types.LeaderboardConfig, w io.Writer) error {
	entries, err := s.All(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	ranked, unranked := splitRanked(entries)

	csvPath := filepath.Join(cfg.OutputDir, csvFile)
	if err := writeCSV(csvPath, ranked); err != nil {
		return err
	}

	mdPath := filepath.Join(cfg.OutputDir, markdownFile)
	if err := writeMarkdown(mdPath, ranked, unranked); err != nil {
		return err
	}

	fmt.Fprintf(w, "leaderboard: %d ranked, %d without metric -> %s, %s\n",
		len(ranked), len(unranked), csvPath, mdPath)
	return nil
}

// splitRanked separates entries with a reported metric from those
// without. The store already orders by metric descending.
func splitRanked(entries []types.SOTAEntry) (ranked, unranked []types.SOTAEntry) {
	for _, e := range entries {
		if e.HasMetric() {
			ranked = append(ranked, e)
		} else {
			unranked = append(unranked, e)
		}
	}
	return ranked, unranked
}

func writeCSV(path string, ranked []types.SOTAEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{
		"rank", "method", "pipeline", "strategy", "metric_value",
		"arxiv_id", "paper_title", "dataset_mentioned", "evidence",
	}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, e := range ranked {
		record := []string{
			strconv.Itoa(i + 1),
			e.Method,
			e.Pipeline,
			e.Strategy,
			strconv.FormatFloat(e.MetricValue, 'f', 4, 64),
			e.ArxivID,
			e.PaperTitle,
			strconv.FormatBool(e.DatasetMentioned),
			e.Evidence,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func writeMarkdown(path string, ranked, unranked []types.SOTAEntry) error {
	var b strings.Builder

	b.WriteString("# SOTA Leaderboard\n\n")
	b.WriteString("| Rank | Method | Pipeline | Strategy | Metric | arXiv |\n")
	b.WriteString("|-----:|--------|----------|----------|-------:|-------|\n")
	for i, e := range ranked {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %.4f | %s |\n",
			i+1, mdEscape(e.Method), mdEscape(e.Pipeline), mdEscape(e.Strategy),
			e.MetricValue, e.ArxivID)
	}

	if len(unranked) > 0 {
		b.WriteString("\n## Metric not reported\n\n")
		for _, e := range unranked {
			fmt.Fprintf(&b, "- %s (%s): %s\n",
				mdEscape(e.Method), e.ArxivID, mdEscape(e.PaperTitle))
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// mdEscape keeps table cells on one row.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
