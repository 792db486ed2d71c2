// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/sota-agent/pkg/types"
)

func testScanCfg() types.ScanConfig {
	return types.ScanConfig{
		AllowedCategories: []string{"cs.LG", "stat.ML"},
		MaxScan:           -1,
	}
}

func TestMatchesCategories(t *testing.T) {
	cfg := testScanCfg()
	tests := []struct {
		name       string
		categories string
		want       bool
	}{
		{"single allowed", "cs.LG", true},
		{"multi with allowed", "cs.CV cs.LG", true},
		{"stat.ML", "stat.ML", true},
		{"none allowed", "math.CO hep-th", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Categories: tt.categories}
			if got := Matches(rec, cfg); got != tt.want {
				t.Errorf("Matches(categories=%q) = %v, want %v", tt.categories, got, tt.want)
			}
		})
	}
}

func TestMatchesMinDate(t *testing.T) {
	cfg := testScanCfg()
	cfg.MinDate = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		updateDate string
		want       bool
	}{
		{"recent", "2023-06-15", true},
		{"too old", "2019-03-01", false},
		{"unparseable rejected", "not-a-date", false},
		{"missing rejected", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Categories: "cs.LG", UpdateDate: tt.updateDate}
			if got := Matches(rec, cfg); got != tt.want {
				t.Errorf("Matches(update_date=%q) = %v, want %v", tt.updateDate, got, tt.want)
			}
		})
	}
}

func TestMatchesRequireDOI(t *testing.T) {
	cfg := testScanCfg()
	cfg.RequireDOI = true

	if Matches(Record{Categories: "cs.LG"}, cfg) {
		t.Error("record without DOI should be rejected")
	}
	if !Matches(Record{Categories: "cs.LG", DOI: "10.1000/x"}, cfg) {
		t.Error("record with DOI should be accepted")
	}
}

func TestMatchesKeywords(t *testing.T) {
	cfg := testScanCfg()
	cfg.IncludeKeywords = []string{"ImageNet"}
	cfg.ExcludeTitleKeywords = []string{"survey"}

	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{
			"keyword in abstract",
			Record{Categories: "cs.LG", Title: "A Method", Abstract: "We evaluate on imagenet."},
			true,
		},
		{
			"keyword in title",
			Record{Categories: "cs.LG", Title: "Scaling ImageNet Training", Abstract: "none"},
			true,
		},
		{
			"keyword absent",
			Record{Categories: "cs.LG", Title: "A Method", Abstract: "We evaluate on CIFAR."},
			false,
		},
		{
			"excluded title term",
			Record{Categories: "cs.LG", Title: "A Survey of ImageNet Models", Abstract: "imagenet"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.rec, cfg); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorpusStream(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	lines := `{"id":"2301.00001","title":"Paper One","abstract":"imagenet results","categories":"cs.LG","update_date":"2023-01-01"}
not valid json
{"id":"2301.00002","title":"Paper Two","abstract":"unrelated","categories":"math.CO","update_date":"2023-01-01"}
{"id":"2301.00003","title":"Paper Three","abstract":"more imagenet","categories":"stat.ML","update_date":"2023-02-01"}
`
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testScanCfg()
	cfg.CorpusPath = path

	var out bytes.Buffer
	candidates, summary, err := Corpus(cfg, &out)
	if err != nil {
		t.Fatalf("Corpus() error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	if candidates[0].ID != "2301.00001" || candidates[1].ID != "2301.00003" {
		t.Errorf("candidate IDs = %s, %s", candidates[0].ID, candidates[1].ID)
	}
	if summary.Malformed != 1 {
		t.Errorf("malformed = %d, want 1", summary.Malformed)
	}
	if summary.Scanned != 4 {
		t.Errorf("scanned = %d, want 4", summary.Scanned)
	}
}

func TestCorpusMissingFileFatal(t *testing.T) {
	cfg := testScanCfg()
	cfg.CorpusPath = filepath.Join(t.TempDir(), "missing.json")

	var out bytes.Buffer
	if _, _, err := Corpus(cfg, &out); err == nil {
		t.Fatal("Corpus() = nil error for missing corpus file")
	}
}

func TestCorpusScanLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	lines := `{"id":"1","categories":"cs.LG"}
{"id":"2","categories":"cs.LG"}
{"id":"3","categories":"cs.LG"}
`
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testScanCfg()
	cfg.CorpusPath = path
	cfg.MaxScan = 2

	var out bytes.Buffer
	candidates, summary, err := Corpus(cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Scanned != 2 || len(candidates) != 2 {
		t.Errorf("scanned = %d, candidates = %d, want 2 and 2", summary.Scanned, len(candidates))
	}
}

func TestRecordMetadata(t *testing.T) {
	rec := Record{
		ID:         "2301.00001",
		Title:      " A Title ",
		Abstract:   "An abstract.",
		Categories: "cs.LG stat.ML",
		UpdateDate: "2023-01-01",
	}
	m := rec.Metadata()
	if m["title"] != "A Title" {
		t.Errorf("title = %q", m["title"])
	}
	if _, ok := m["doi"]; ok {
		t.Error("empty doi should be omitted")
	}
}
