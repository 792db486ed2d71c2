// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sota-agent/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScanConfig holds settings for the corpus metadata scan stage.
type ScanConfig struct {
	// CorpusPath is the newline-delimited-JSON arXiv metadata snapshot.
	// Required; a missing file aborts the run.
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`

	// AllowedCategories lists arXiv categories a candidate must intersect
	// (default cs.LG, stat.ML).
	AllowedCategories []string `json:"allowed_categories" yaml:"allowed_categories"`

	// MinDate excludes papers whose update_date is older. Zero disables.
	MinDate time.Time `json:"min_date,omitempty" yaml:"min_date,omitempty"`

	// RequireDOI keeps only papers carrying a DOI (published work).
	RequireDOI bool `json:"require_doi" yaml:"require_doi"`

	// IncludeKeywords must match the title or abstract (any of, substring,
	// case-insensitive). Empty means no keyword constraint.
	IncludeKeywords []string `json:"include_keywords" yaml:"include_keywords"`

	// ExcludeTitleKeywords drops papers whose title contains any term.
	ExcludeTitleKeywords []string `json:"exclude_title_keywords" yaml:"exclude_title_keywords"`

	// MaxScan caps the number of corpus lines examined. -1 scans everything.
	MaxScan int `json:"max_scan" yaml:"max_scan"`
}

// AcquisitionConfig holds settings for the source-download stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the minimum spacing between consecutive downloads
	// (default 3s), a cooperative throttle for the arXiv fair-use policy.
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// SourcesDir is where extracted LaTeX source trees are kept.
	SourcesDir string `json:"sources_dir" yaml:"sources_dir"`

	// ParsedDir is where parsed-paper checkpoint JSON files are written.
	ParsedDir string `json:"parsed_dir" yaml:"parsed_dir"`

	// KeepSources controls whether source trees are retained after parsing.
	KeepSources bool `json:"keep_sources" yaml:"keep_sources"`

	// MaxDownloads caps the number of candidates downloaded. -1 means all.
	MaxDownloads int `json:"max_downloads" yaml:"max_downloads"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AnalysisConfig holds settings for the LLM extraction stage.
type AnalysisConfig struct {
	AIConfig `yaml:",inline"`

	// Dataset is the target dataset the leaderboard is built for.
	Dataset string `json:"dataset" yaml:"dataset"`

	// MetricName names the performance metric to extract (e.g. "accuracy").
	MetricName string `json:"metric_name" yaml:"metric_name"`

	// MetricDescription tells the model what the metric means.
	MetricDescription string `json:"metric_description" yaml:"metric_description"`

	// PipelineStages enumerates the allowed taxonomy pipeline stages.
	PipelineStages []string `json:"pipeline_stages" yaml:"pipeline_stages"`

	// ContentKeywords restricts analysis to papers whose parsed text contains
	// any keyword. Empty means analyze every parsed paper.
	ContentKeywords []string `json:"content_keywords" yaml:"content_keywords"`

	// MaxChars is the character budget for assembled paper text (default 50000).
	MaxChars int `json:"max_chars" yaml:"max_chars"`

	// MaxCalls caps the number of LLM calls per run. -1 means no cap.
	MaxCalls int `json:"max_calls" yaml:"max_calls"`

	// CallDelay is the pause between consecutive LLM calls (default 100ms).
	CallDelay time.Duration `json:"call_delay" yaml:"call_delay"`
}

// LeaderboardConfig holds settings for the results store and report output.
type LeaderboardConfig struct {
	// OutputDir receives leaderboard.csv and leaderboard.md (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// IndexDir holds the SQLite entries database (default "output/index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default result cap for store queries (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Scan        ScanConfig        `json:"scan" yaml:"scan"`
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Analysis    AnalysisConfig    `json:"analysis" yaml:"analysis"`
	Leaderboard LeaderboardConfig `json:"leaderboard" yaml:"leaderboard"`
}

// DefaultPipelineConfig returns a PipelineConfig with every option set to its
// documented default. Callers overlay file and flag values on top.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Scan: ScanConfig{
			AllowedCategories: []string{"cs.LG", "stat.ML"},
			MaxScan:           -1,
		},
		Acquisition: AcquisitionConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "sota-agent/0.1",
			},
			DownloadDelay: 3 * time.Second,
			SourcesDir:    "data/sources",
			ParsedDir:     "data/parsed",
			KeepSources:   true,
			MaxDownloads:  -1,
		},
		Analysis: AnalysisConfig{
			AIConfig: AIConfig{
				Model:      "gemini-2.5-flash",
				MaxRetries: 3,
			},
			MaxChars:  50000,
			MaxCalls:  -1,
			CallDelay: 100 * time.Millisecond,
		},
		Leaderboard: LeaderboardConfig{
			OutputDir:  "output",
			IndexDir:   "output/index",
			MaxResults: 50,
		},
	}
}

// Validate checks the configuration once at load time and returns the first
// problem found. Fatal problems here abort the run before any work starts.
func (c *PipelineConfig) Validate() error {
	if c.Scan.CorpusPath == "" {
		return fmt.Errorf("scan.corpus_path is required")
	}
	if len(c.Scan.AllowedCategories) == 0 {
		return fmt.Errorf("scan.allowed_categories must not be empty")
	}
	if c.Acquisition.DownloadDelay < 0 {
		return fmt.Errorf("acquisition.download_delay must not be negative")
	}
	if c.Acquisition.SourcesDir == "" || c.Acquisition.ParsedDir == "" {
		return fmt.Errorf("acquisition.sources_dir and acquisition.parsed_dir are required")
	}
	if c.Analysis.Model == "" {
		return fmt.Errorf("analysis.model is required")
	}
	if c.Analysis.Dataset == "" {
		return fmt.Errorf("analysis.dataset is required")
	}
	if c.Analysis.MetricName == "" {
		return fmt.Errorf("analysis.metric_name is required")
	}
	if len(c.Analysis.PipelineStages) == 0 {
		return fmt.Errorf("analysis.pipeline_stages must not be empty")
	}
	if c.Analysis.MaxChars <= 0 {
		return fmt.Errorf("analysis.max_chars must be positive")
	}
	if c.Leaderboard.OutputDir == "" {
		return fmt.Errorf("leaderboard.output_dir is required")
	}
	return nil
}
