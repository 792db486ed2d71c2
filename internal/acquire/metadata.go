// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/sota-agent/internal/httputil"
	"github.com/pdiddy/sota-agent/pkg/types"
)

// arxivAPIBase is the arXiv metadata endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Updated    string          `xml:"updated"`
	DOI        string          `xml:"doi"`
	JournalRef string          `xml:"journal_ref"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// fetchArxivMetadata queries the arXiv API for one paper and merges the
// response fields into meta. Existing keys are overwritten only when the API
// returns a non-empty value, so corpus-snapshot fields survive a partial
// response.
func fetchArxivMetadata(ctx context.Context, client *http.Client, arxivID string, meta types.Metadata, cfg types.AcquisitionConfig) error {
	url := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, arxivID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("parsing arXiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return fmt.Errorf("no entry found for arXiv ID %s", arxivID)
	}
	entry := feed.Entries[0]

	merge := func(key, value string) {
		value = strings.Join(strings.Fields(value), " ")
		if value != "" {
			meta[key] = value
		}
	}

	merge("title", entry.Title)
	merge("abstract", entry.Summary)
	merge("published", entry.Published)
	merge("updated", entry.Updated)
	merge("doi", entry.DOI)
	merge("journal_ref", entry.JournalRef)

	var authors []string
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	merge("authors", strings.Join(authors, ", "))

	var categories []string
	for _, c := range entry.Categories {
		if c.Term != "" {
			categories = append(categories, c.Term)
		}
	}
	merge("categories", strings.Join(categories, " "))

	return nil
}
