// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/sota-agent/internal/httputil"
	"github.com/pdiddy/sota-agent/pkg/types"
)

// arxivEPrintBase is the arXiv source-archive endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivEPrintBase = "https://arxiv.org/e-print/"

// downloadSource fetches the e-print archive for an arXiv ID and extracts it
// into sourceDir. Archives are gzipped tarballs or, for single-file
// submissions, a bare gzipped .tex written out as main.tex. An existing
// non-empty sourceDir is reused without a network call.
func downloadSource(ctx context.Context, client *http.Client, arxivID, sourceDir string, cfg types.AcquisitionConfig) error {
	if dirNonEmpty(sourceDir) {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivEPrintBase+arxivID, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("downloading source for %s: %w", arxivID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("arXiv e-print returned HTTP %d for %s", resp.StatusCode, arxivID)
	}

	// Spool to a temp file so extraction can be retried as a different
	// archive flavor.
	tmp, err := os.CreateTemp("", "sota-agent-eprint-*.gz")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("saving archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}

	if err := extractTarGz(tmpPath, sourceDir); err == nil {
		return nil
	}

	// Single-file submission: a bare gzipped .tex.
	if err := extractGzipSingle(tmpPath, filepath.Join(sourceDir, "main.tex")); err != nil {
		return fmt.Errorf("extracting archive for %s: %w", arxivID, err)
	}
	return nil
}

// extractTarGz unpacks a gzipped tarball into dir, rejecting entries that
// would escape it.
func extractTarGz(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := filepath.Clean(hdr.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			continue
		}
		target := filepath.Join(dir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.Create(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// extractGzipSingle decompresses a bare gzip stream to a single file.
func extractGzipSingle(archivePath, target string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, gz); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func dirNonEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
