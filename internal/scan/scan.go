// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan streams the bulk arXiv metadata snapshot and selects
// candidate papers for the pipeline.
package scan

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/sota-agent/pkg/types"
)

// maxLineBytes bounds a single NDJSON line; abstracts are long but stay
// well under this.
const maxLineBytes = 4 * 1024 * 1024

// Record is one paper's metadata line from the arXiv snapshot. Categories
// and authors are space- and comma-separated strings in the source file.
type Record struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Abstract   string `json:"abstract"`
	Authors    string `json:"authors"`
	Categories string `json:"categories"`
	UpdateDate string `json:"update_date"`
	DOI        string `json:"doi"`
}

// Metadata converts the record to the free-form metadata map carried on a
// Paper. Empty fields are omitted.
func (r Record) Metadata() types.Metadata {
	m := types.Metadata{}
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set("title", strings.TrimSpace(r.Title))
	set("abstract", strings.TrimSpace(r.Abstract))
	set("authors", strings.TrimSpace(r.Authors))
	set("categories", strings.TrimSpace(r.Categories))
	set("update_date", strings.TrimSpace(r.UpdateDate))
	set("doi", strings.TrimSpace(r.DOI))
	return m
}

// Summary holds counts from a corpus scan.
type Summary struct {
	Scanned    int
	Candidates int
	Malformed  int
}

// Corpus scans the metadata snapshot line by line and returns the records
// matching the configured filters. Malformed lines are counted and skipped
// silently; a missing corpus file is a fatal error. Progress is rendered to
// w as the stream advances.
func Corpus(cfg types.ScanConfig, w io.Writer) ([]Record, Summary, error) {
	f, err := os.Open(cfg.CorpusPath)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("opening corpus %s: %w", cfg.CorpusPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("stat corpus: %w", err)
	}

	bar := progressbar.NewOptions64(info.Size(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetDescription("scanning corpus"),
		progressbar.OptionThrottle(250*time.Millisecond),
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var candidates []Record
	var summary Summary

	for scanner.Scan() {
		line := scanner.Bytes()
		bar.Add(len(line) + 1)

		if cfg.MaxScan >= 0 && summary.Scanned >= cfg.MaxScan {
			break
		}
		summary.Scanned++

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			summary.Malformed++
			continue
		}

		if Matches(rec, cfg) {
			candidates = append(candidates, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, summary, fmt.Errorf("reading corpus: %w", err)
	}

	bar.Finish()
	summary.Candidates = len(candidates)
	fmt.Fprintf(w, "\nscanned %d records, %d candidates, %d malformed lines\n",
		summary.Scanned, summary.Candidates, summary.Malformed)

	return candidates, summary, nil
}

// Matches applies the metadata filters: category intersection, minimum
// update date, DOI requirement, title exclusions, and title/abstract
// inclusion keywords.
func Matches(rec Record, cfg types.ScanConfig) bool {
	if !categoriesIntersect(rec.Categories, cfg.AllowedCategories) {
		return false
	}

	if !cfg.MinDate.IsZero() {
		date, err := time.Parse("2006-01-02", rec.UpdateDate)
		if err != nil {
			return false
		}
		if date.Before(cfg.MinDate) {
			return false
		}
	}

	if cfg.RequireDOI && rec.DOI == "" {
		return false
	}

	title := strings.ToLower(rec.Title)
	for _, term := range cfg.ExcludeTitleKeywords {
		if term != "" && strings.Contains(title, strings.ToLower(term)) {
			return false
		}
	}

	if len(cfg.IncludeKeywords) > 0 {
		abstract := strings.ToLower(rec.Abstract)
		found := false
		for _, kw := range cfg.IncludeKeywords {
			kw = strings.ToLower(kw)
			if kw != "" && (strings.Contains(title, kw) || strings.Contains(abstract, kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func categoriesIntersect(categories string, allowed []string) bool {
	for _, cat := range strings.Fields(categories) {
		for _, a := range allowed {
			if cat == a {
				return true
			}
		}
	}
	return false
}
