// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MetricNotReported is the sentinel metric value for entries where the paper
// does not report the target metric, or where the reported value could not be
// parsed. It sorts below every valid fraction so leaderboard ordering stays
// well defined.
const MetricNotReported = -1.0

// SOTAEntry is one validated state-of-the-art claim extracted from a paper:
// a method, its taxonomy classification, and the metric value it reports on
// the target dataset.
//
// MetricValue is always either MetricNotReported or a fraction in [0, 1].
// Percentage-style values above 1.0 are divided by 100 during normalization.
// This convention is deliberately lossy for metrics that are naturally larger
// than 1.0 without being percentages (perplexity, raw BLEU counts); the
// pipeline must only be pointed at fractional or percentage-style metrics.
type SOTAEntry struct {
	// PaperTitle is the paper title, title-cased.
	PaperTitle string `json:"paper_title" yaml:"paper_title"`

	// Method is the name of the proposed method, as reported.
	Method string `json:"method_name" yaml:"method_name"`

	// Pipeline is the taxonomy pipeline stage the method belongs to,
	// title-cased. One of the stages configured for the run.
	Pipeline string `json:"pipeline" yaml:"pipeline"`

	// Strategy is the algorithmic strategy within the stage, title-cased.
	Strategy string `json:"strategy" yaml:"strategy"`

	// MetricValue is the normalized metric as a fraction in [0, 1], or
	// MetricNotReported.
	MetricValue float64 `json:"metric_value" yaml:"metric_value"`

	// Evidence is a verbatim quote from the paper supporting the metric.
	Evidence string `json:"evidence" yaml:"evidence"`

	// DatasetMentioned reports whether the target dataset is explicitly
	// evaluated in the paper.
	DatasetMentioned bool `json:"dataset_mentioned" yaml:"dataset_mentioned"`

	// ArxivID links the entry back to its source paper.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
}

// HasMetric reports whether the entry carries a usable metric value.
func (e SOTAEntry) HasMetric() bool {
	return e.MetricValue != MetricNotReported
}
