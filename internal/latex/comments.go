// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex reduces raw LaTeX source to clean, section-structured text.
// It is a best-effort textual reduction, not a LaTeX interpreter: comment
// stripping, recursive \input resolution, heading-based section segmentation,
// and prose cleanup good enough for LLM consumption.
package latex

import "strings"

// StripComments removes LaTeX line comments. Each line is truncated at its
// first unescaped % (a % immediately preceded by \ is escaped). Line
// structure is preserved, and running the function over already comment-free
// text is a no-op.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if pos := commentStart(line); pos >= 0 {
			lines[i] = line[:pos]
		}
	}
	return strings.Join(lines, "\n")
}

// commentStart returns the index of the first unescaped % in line, or -1.
func commentStart(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
			return i
		}
	}
	return -1
}
