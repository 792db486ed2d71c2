// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sota-agent/internal/latex"
)

// commonMainNames are conventional main-file names, tried first.
var commonMainNames = []string{"main.tex", "paper.tex", "manuscript.tex", "article.tex"}

// FindMainTex locates the main .tex file in an extracted source tree: a
// conventional name, the only .tex file, any file declaring \documentclass
// or \begin{document}, and finally the largest .tex file.
func FindMainTex(sourceDir string) (string, error) {
	for _, name := range commonMainNames {
		path := filepath.Join(sourceDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(sourceDir, "*.tex"))
	if err != nil {
		return "", fmt.Errorf("listing .tex files: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .tex file found in %s", sourceDir)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	for _, path := range matches {
		content, err := latex.ReadTexFile(path)
		if err != nil {
			continue
		}
		if strings.Contains(content, `\documentclass`) || strings.Contains(content, `\begin{document}`) {
			return path, nil
		}
	}

	// Fall back to the largest candidate.
	largest := matches[0]
	var largestSize int64 = -1
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > largestSize {
			largest = path
			largestSize = info.Size()
		}
	}
	return largest, nil
}
