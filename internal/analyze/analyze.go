// Package analyze extracts state-of-the-art leaderboard entries from parsed
// papers via a JSON-constrained LLM call, and validates the responses into
// typed records.
package analyze

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/sota-agent/pkg/types"
)

// FailureKind classifies why a paper produced no entry.
type FailureKind int

const (
	// FailureNone marks a successful extraction.
	FailureNone FailureKind = iota
	// FailureBackend marks an upstream LLM or transport error.
	FailureBackend
	// FailureValidation marks a response rejected by the normalizer.
	FailureValidation
)

// Result is the per-paper outcome of the extraction loop: either a
// validated entry or an error with its failure kind. The batch is a fold
// over these results rather than exception-style suppression.
type Result struct {
	ArxivID string
	Entry   types.SOTAEntry
	Kind    FailureKind
	Err     error
}

// OK reports whether the result carries a usable entry.
func (r Result) OK() bool {
	return r.Kind == FailureNone
}

// BatchSummary holds counts from an analysis run.
type BatchSummary struct {
	Analyzed int
	Failed   int
}

// Total returns the number of papers processed.
func (s BatchSummary) Total() int {
	return s.Analyzed + s.Failed
}

// HasFailures reports whether any papers failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// FilterByContent keeps papers whose parsed text contains any of the given
// keywords, case-insensitive. An empty keyword list keeps everything.
func FilterByContent(papers []*types.Paper, keywords []string) []*types.Paper {
	if len(keywords) == 0 {
		return papers
	}

	var kept []*types.Paper
	for _, p := range papers {
		text := strings.ToLower(p.RawText())
		for _, kw := range keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}

// backoffBase controls the base duration for exponential backoff on backend
// errors. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the backend with exponential backoff.
func callWithRetry(ctx context.Context, backend Backend, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Analyze(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// AnalyzePaper runs one extraction: prompt assembly, the backend call with
// retries, and normalization of the response.
func AnalyzePaper(ctx context.Context, backend Backend, p *types.Paper, cfg types.AnalysisConfig) Result {
	res := Result{ArxivID: p.ArxivID}

	prompt, err := buildPrompt(p, cfg)
	if err != nil {
		res.Kind, res.Err = FailureValidation, fmt.Errorf("building prompt: %w", err)
		return res
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	responseJSON, err := callWithRetry(ctx, backend, prompt, maxRetries)
	if err != nil {
		res.Kind, res.Err = FailureBackend, err
		return res
	}

	entry, err := Normalize(responseJSON, p.ArxivID)
	if err != nil {
		res.Kind, res.Err = FailureValidation, err
		return res
	}

	res.Entry = entry
	return res
}

// AnalyzeBatch processes papers sequentially, pausing between LLM calls,
// printing per-item status, and continuing after individual failures. Every
// paper yields exactly one Result.
func AnalyzeBatch(ctx context.Context, backend Backend, papers []*types.Paper, cfg types.AnalysisConfig, w io.Writer) ([]Result, BatchSummary) {
	if cfg.MaxCalls >= 0 && len(papers) > cfg.MaxCalls {
		papers = papers[:cfg.MaxCalls]
	}

	var results []Result
	var summary BatchSummary

	for i, p := range papers {
		if i > 0 && cfg.CallDelay > 0 {
			select {
			case <-ctx.Done():
				return results, summary
			case <-time.After(cfg.CallDelay):
			}
		}

		res := AnalyzePaper(ctx, backend, p, cfg)
		results = append(results, res)

		if !res.OK() {
			fmt.Fprintf(w, "failed:  %s (%v)\n", res.ArxivID, res.Err)
			summary.Failed++
			continue
		}

		if res.Entry.HasMetric() {
			fmt.Fprintf(w, "extracted: %s -> %s = %.4f\n", res.ArxivID, res.Entry.Method, res.Entry.MetricValue)
		} else {
			fmt.Fprintf(w, "extracted: %s -> %s (metric not reported)\n", res.ArxivID, res.Entry.Method)
		}
		summary.Analyzed++
	}

	return results, summary
}
