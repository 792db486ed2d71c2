// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/sota-agent/pkg/types"
)

// rawEntry is the loosely-typed shape of the model's JSON response, before
// validation. Pointer fields distinguish absent from empty; metric_value is
// left untyped because models return it as a number, a string with a percent
// sign, or null.
type rawEntry struct {
	PaperTitle       *string `json:"paper_title"`
	MethodName       *string `json:"method_name"`
	Pipeline         *string `json:"pipeline"`
	Strategy         *string `json:"strategy"`
	MetricValue      any     `json:"metric_value"`
	Evidence         *string `json:"evidence"`
	DatasetMentioned *bool   `json:"dataset_mentioned"`
}

// decimalPattern accepts non-negative decimal numerals only: no sign, no
// exponent, at most one dot.
var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]*)?$|^\.[0-9]+$`)

// Normalize validates the model's raw JSON response and canonicalizes it
// into a SOTAEntry: taxonomy labels and the paper title are trimmed and
// title-cased, free-text fields trimmed only, and the metric value reduced
// to a fraction in [0, 1] or the MetricNotReported sentinel. A response
// missing a required field (paper title, method name, dataset-mentioned
// flag) is a validation failure.
func Normalize(responseJSON, arxivID string) (types.SOTAEntry, error) {
	var raw rawEntry
	if err := json.Unmarshal([]byte(responseJSON), &raw); err != nil {
		return types.SOTAEntry{}, fmt.Errorf("parsing model response: %w", err)
	}

	if raw.PaperTitle == nil || strings.TrimSpace(*raw.PaperTitle) == "" {
		return types.SOTAEntry{}, fmt.Errorf("response missing paper_title")
	}
	if raw.MethodName == nil || strings.TrimSpace(*raw.MethodName) == "" {
		return types.SOTAEntry{}, fmt.Errorf("response missing method_name")
	}
	if raw.DatasetMentioned == nil {
		return types.SOTAEntry{}, fmt.Errorf("response missing dataset_mentioned")
	}

	titleCaser := cases.Title(language.English)

	entry := types.SOTAEntry{
		PaperTitle:       titleCaser.String(strings.TrimSpace(*raw.PaperTitle)),
		Method:           strings.TrimSpace(*raw.MethodName),
		MetricValue:      normalizeMetric(raw.MetricValue),
		DatasetMentioned: *raw.DatasetMentioned,
		ArxivID:          arxivID,
	}
	if raw.Pipeline != nil {
		entry.Pipeline = titleCaser.String(strings.TrimSpace(*raw.Pipeline))
	}
	if raw.Strategy != nil {
		entry.Strategy = titleCaser.String(strings.TrimSpace(*raw.Strategy))
	}
	if raw.Evidence != nil {
		entry.Evidence = strings.TrimSpace(*raw.Evidence)
	}

	return entry, nil
}

// normalizeMetric reduces a heterogeneous metric value to a fraction in
// [0, 1] or the sentinel. String values lose a trailing % sign and
// surrounding whitespace; anything that is not a non-negative decimal
// numeral afterwards means "not reported". Values above 1.0 are treated as
// percentages in 0-100 form and divided by 100.
func normalizeMetric(v any) float64 {
	var val float64

	switch m := v.(type) {
	case nil:
		return types.MetricNotReported
	case float64:
		val = m
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m), "%"))
		if !decimalPattern.MatchString(s) {
			return types.MetricNotReported
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.MetricNotReported
		}
		val = parsed
	default:
		return types.MetricNotReported
	}

	if val < 0 {
		return types.MetricNotReported
	}
	if val > 1.0 {
		return val / 100.0
	}
	return val
}
