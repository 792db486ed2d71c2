// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"regexp"
	"strings"
)

// Environments and commands stripped wholesale from section content. The
// environment patterns are non-greedy multiline spans; deeply nested math
// inside a removed environment may be mis-handled, which is an accepted
// approximation.
var (
	figureEnvPattern   = regexp.MustCompile(`(?s)\\begin\{figure\}.*?\\end\{figure\}`)
	tableEnvPattern    = regexp.MustCompile(`(?s)\\begin\{table\}.*?\\end\{table\}`)
	equationEnvPattern = regexp.MustCompile(`(?s)\\begin\{equation\*?\}.*?\\end\{equation\*?\}`)
	alignEnvPattern    = regexp.MustCompile(`(?s)\\begin\{align\*?\}.*?\\end\{align\*?\}`)

	citePattern  = regexp.MustCompile(`\\cite\{[^}]+\}`)
	refPattern   = regexp.MustCompile(`\\ref\{[^}]+\}`)
	labelPattern = regexp.MustCompile(`\\label\{[^}]+\}`)

	textbfPattern = regexp.MustCompile(`\\textbf\{([^}]*)\}`)
	textitPattern = regexp.MustCompile(`\\textit\{([^}]*)\}`)
	emphPattern   = regexp.MustCompile(`\\emph\{([^}]*)\}`)

	commandArgPattern  = regexp.MustCompile(`\\[a-zA-Z]+\*?\{[^}]*\}`)
	bareCommandPattern = regexp.MustCompile(`\\[a-zA-Z]+\*?`)

	blankLinesPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)

	titleCommandPattern = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	bareTitleCmdPattern = regexp.MustCompile(`\\[a-zA-Z]+`)
)

// CleanContent strips structural LaTeX noise from a raw content span,
// leaving prose: figure/table/equation/align environments are removed
// wholesale, citations and labels dropped, formatting commands unwrapped to
// their inner text, remaining commands deleted, and whitespace normalized.
func CleanContent(content string) string {
	content = figureEnvPattern.ReplaceAllString(content, "")
	content = tableEnvPattern.ReplaceAllString(content, "")
	content = equationEnvPattern.ReplaceAllString(content, "")
	content = alignEnvPattern.ReplaceAllString(content, "")

	content = citePattern.ReplaceAllString(content, "")
	content = refPattern.ReplaceAllString(content, "")
	content = labelPattern.ReplaceAllString(content, "")

	content = textbfPattern.ReplaceAllString(content, "$1")
	content = textitPattern.ReplaceAllString(content, "$1")
	content = emphPattern.ReplaceAllString(content, "$1")

	content = commandArgPattern.ReplaceAllString(content, "")
	content = bareCommandPattern.ReplaceAllString(content, "")

	content = blankLinesPattern.ReplaceAllString(content, "\n\n")
	content = strings.Join(strings.Fields(content), " ")

	return strings.TrimSpace(content)
}

// CleanTitle reduces a raw heading to human-readable text: one-argument
// formatting commands are unwrapped (repeatedly, so nested wrappers resolve),
// remaining bare commands dropped, whitespace collapsed, and trailing
// punctuation stripped.
func CleanTitle(title string) string {
	for {
		unwrapped := titleCommandPattern.ReplaceAllString(title, "$1")
		if unwrapped == title {
			break
		}
		title = unwrapped
	}
	title = bareTitleCmdPattern.ReplaceAllString(title, "")

	title = strings.Join(strings.Fields(title), " ")
	title = strings.TrimRight(title, ".:;,")

	return strings.TrimSpace(title)
}
