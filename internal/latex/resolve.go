// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// inputPattern matches \input{filename} references.
var inputPattern = regexp.MustCompile(`\\input\{([^}]+)\}`)

// ResolveInputs recursively replaces every \input{name} occurrence in text
// with the contents of the referenced file, producing one self-contained
// source blob. Targets are resolved relative to the directory of the
// including file: the name is tried as given, then with a .tex suffix when
// it lacks one. A reference that cannot be read is left in place unmodified
// and reported as a warning; the same applies to a file that would include
// itself transitively, so cyclic inputs terminate instead of recursing
// forever.
func ResolveInputs(text, baseDir string) (string, []string) {
	r := &resolver{visited: make(map[string]bool)}
	resolved := r.resolve(text, baseDir)
	return resolved, r.warnings
}

type resolver struct {
	// visited holds absolute paths of files currently being inlined, so a
	// file that transitively inputs itself is detected instead of looping.
	visited  map[string]bool
	warnings []string
}

func (r *resolver) resolve(text, baseDir string) string {
	return inputPattern.ReplaceAllStringFunc(text, func(cmd string) string {
		name := strings.TrimSpace(inputPattern.FindStringSubmatch(cmd)[1])
		if name == "" {
			return cmd
		}

		path, ok := r.locate(name, baseDir)
		if !ok {
			r.warnf("could not find input file: %s", name)
			return cmd
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if r.visited[abs] {
			r.warnf("cyclic input detected, leaving command in place: %s", name)
			return cmd
		}

		included, err := ReadTexFile(path)
		if err != nil {
			r.warnf("failed to read input file %s: %v", path, err)
			return cmd
		}

		r.visited[abs] = true
		resolved := r.resolve(included, filepath.Dir(path))
		delete(r.visited, abs)
		return resolved
	})
}

// locate tries the referenced name as given, then with a .tex suffix.
func (r *resolver) locate(name, baseDir string) (string, bool) {
	candidates := []string{name}
	if !strings.HasSuffix(name, ".tex") {
		candidates = append(candidates, name+".tex")
	}
	for _, c := range candidates {
		path := filepath.Join(baseDir, c)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func (r *resolver) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
