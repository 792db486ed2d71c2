// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sota-agent/pkg/types"
)

// Heading-regex segmentation is a pragmatic approximation: LaTeX has no
// canonical document-structure API, so false positives (figure captions
// mistaken for headings) are filtered by the validity heuristics below
// rather than prevented syntactically.
var (
	abstractPattern = regexp.MustCompile(`(?is)\\begin\{abstract\}(.*?)\\end\{abstract\}`)
	sectionPattern  = regexp.MustCompile(`\\(sub)*section\*?\{([^}]+)\}`)

	skipTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^fig`),
		regexp.MustCompile(`^figure`),
		regexp.MustCompile(`^table`),
		regexp.MustCompile(`^appendix\s*[a-z]$`),
		regexp.MustCompile(`^[a-z]$`),
	}
)

const (
	minSectionLength  = 50
	minSentenceLength = 20
)

// ParseSections slices flattened, comment-stripped LaTeX source into ordered
// sections. The abstract environment, when present and substantive, becomes
// the section titled "Abstract" at order 0; at most one abstract is ever
// produced. \section and \subsection headings (starred or not, no deeper
// nesting) then delimit content spans running to the next heading or end of
// document. Candidates with low-value titles or insubstantial content are
// dropped without consuming an order slot, so order values stay contiguous.
func ParseSections(text string) []types.Section {
	text = StripComments(text)

	var sections []types.Section

	if abstract, ok := extractAbstract(text); ok {
		sections = append(sections, types.Section{
			Title:   "Abstract",
			Content: abstract,
			Order:   0,
		})
	}

	matches := sectionPattern.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		title := CleanTitle(strings.TrimSpace(text[m[4]:m[5]]))
		if !validSectionTitle(title) {
			continue
		}

		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		content := CleanContent(strings.TrimSpace(text[start:end]))
		if !validSectionContent(content) {
			continue
		}

		sections = append(sections, types.Section{
			Title:   title,
			Content: content,
			Order:   len(sections),
		})
	}

	return sections
}

// extractAbstract pulls the first abstract environment, cleans it, and
// reports whether it passes the content validity check.
func extractAbstract(text string) (string, bool) {
	m := abstractPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	abstract := CleanContent(strings.TrimSpace(m[1]))
	if !validSectionContent(abstract) {
		return "", false
	}
	return abstract, true
}

// validSectionTitle rejects empty, too-short, and known low-value titles
// (figure and table captions, single appendix letters, single characters).
func validSectionTitle(title string) bool {
	if len(title) < 2 {
		return false
	}
	lower := strings.ToLower(title)
	for _, p := range skipTitlePatterns {
		if p.MatchString(lower) {
			return false
		}
	}
	return true
}

// validSectionContent rejects content under 50 characters and content with
// no sentence longer than 20 non-whitespace characters, where sentences are
// the spans between . ! ? delimiters.
func validSectionContent(content string) bool {
	if len(content) < minSectionLength {
		return false
	}
	for _, sentence := range splitSentences(content) {
		if len(strings.TrimSpace(sentence)) > minSentenceLength {
			return true
		}
	}
	return false
}

var sentenceDelimPattern = regexp.MustCompile(`[.!?]+`)

func splitSentences(content string) []string {
	return sentenceDelimPattern.Split(content, -1)
}
