// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// TruncationMarker is appended to LLM text that was cut at the character budget.
const TruncationMarker = "\n\n[Text truncated...]"

// DefaultExcludedSections lists section-title substrings excluded from LLM
// consumption. Matching is case-insensitive substring containment.
var DefaultExcludedSections = []string{
	"references", "bibliography", "appendix", "supplementary",
	"acknowledgments", "acknowledgements", "author contributions",
	"funding", "ethics statement", "checklist", "supplementary material",
}

// Section is one titled span of a parsed paper. Order is the zero-based
// position among accepted sections; the abstract, when present, is order 0.
// Sections are created once during parsing and never mutated afterwards.
type Section struct {
	// Title is the cleaned, human-readable heading.
	Title string `json:"title" yaml:"title"`

	// Content is the cleaned prose under the heading.
	Content string `json:"content" yaml:"content"`

	// Order is the insertion index in document position.
	Order int `json:"order" yaml:"order"`
}

// Metadata holds free-form bibliographic fields for a paper (title, authors,
// abstract, categories, ...). Keys are not fixed; they come from the corpus
// snapshot and the arXiv API.
type Metadata map[string]string

// Paper is one parsed arXiv paper: identifier, bibliographic metadata, and
// the ordered sections sliced from its LaTeX source.
type Paper struct {
	// ArxivID is the arXiv identifier (e.g. "2301.07041").
	ArxivID string `json:"arxiv_id"`

	// SourcePath is the local path to the main .tex file, if kept.
	SourcePath string `json:"source_path,omitempty"`

	// Metadata holds bibliographic fields keyed by name.
	Metadata Metadata `json:"metadata"`

	// Sections are the accepted sections in document order.
	Sections []Section `json:"sections"`

	// ParsedDate records when the LaTeX source was parsed. Set once.
	ParsedDate time.Time `json:"parsed_date"`
}

// RelevantSections returns the sections suitable for LLM analysis. A nil
// exclude list selects DefaultExcludedSections; a caller-supplied list fully
// replaces the default rather than merging with it. A section is excluded
// when its lower-cased title contains any excluded term as a substring.
func (p *Paper) RelevantSections(exclude []string) []Section {
	if exclude == nil {
		exclude = DefaultExcludedSections
	}

	var relevant []Section
	for _, sec := range p.Sections {
		title := strings.ToLower(sec.Title)
		excluded := false
		for _, term := range exclude {
			if term != "" && strings.Contains(title, strings.ToLower(term)) {
				excluded = true
				break
			}
		}
		if !excluded {
			relevant = append(relevant, sec)
		}
	}
	return relevant
}

// TextForLLM concatenates the relevant sections into one submission-ready
// block: optionally "Abstract:\n<metadata abstract>\n\n" first, then
// "<title>\n<content>\n\n" per section. The abstract comes from the external
// metadata field, independent of any "Abstract" section parsed from source.
// When maxChars > 0 and the assembled text is longer, the text is hard-cut at
// maxChars and TruncationMarker is appended.
func (p *Paper) TextForLLM(maxChars int, includeAbstract bool) string {
	var b strings.Builder

	if includeAbstract {
		if abstract, ok := p.Metadata["abstract"]; ok {
			fmt.Fprintf(&b, "Abstract:\n%s\n\n", abstract)
		}
	}

	for _, sec := range p.RelevantSections(nil) {
		fmt.Fprintf(&b, "%s\n%s\n\n", sec.Title, sec.Content)
	}

	text := b.String()
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars] + TruncationMarker
	}
	return text
}

// RawText returns the concatenated section text without any formatting,
// used for keyword content filtering.
func (p *Paper) RawText() string {
	var b strings.Builder
	for _, sec := range p.Sections {
		b.WriteString(sec.Title)
		b.WriteString("\n")
		b.WriteString(sec.Content)
		b.WriteString("\n")
	}
	return b.String()
}
