// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sota-agent/pkg/types"
)

func TestNormalizeMetric(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"percent string", "85.5%", 0.855},
		{"fraction string", "0.42", 0.42},
		{"nil", nil, types.MetricNotReported},
		{"negative string", "-5", types.MetricNotReported},
		{"not a number", "not a number", types.MetricNotReported},
		{"spaced percent sign", "  91.2 %  ", 0.912},
		{"padded percent", " 91.2% ", 0.912},
		{"number above one", 85.5, 0.855},
		{"number in range", 0.73, 0.73},
		{"exactly one", 1.0, 1.0},
		{"negative number", -0.5, types.MetricNotReported},
		{"integer percent string", "96%", 0.96},
		{"exponent rejected", "1e3", types.MetricNotReported},
		{"bool rejected", true, types.MetricNotReported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeMetric(tt.in), 1e-9)
		})
	}
}

func TestNormalizeValidResponse(t *testing.T) {
	response := `{
		"paper_title": "attention is all you need",
		"method_name": " Transformer ",
		"pipeline": "sequence modeling",
		"strategy": "self-attention",
		"metric_value": "85.5%",
		"evidence": " We achieve 85.5% accuracy. ",
		"dataset_mentioned": true
	}`

	entry, err := Normalize(response, "1706.03762")
	require.NoError(t, err)

	assert.Equal(t, "Attention Is All You Need", entry.PaperTitle)
	assert.Equal(t, "Transformer", entry.Method)
	assert.Equal(t, "Sequence Modeling", entry.Pipeline)
	assert.Equal(t, "Self-Attention", entry.Strategy)
	assert.InDelta(t, 0.855, entry.MetricValue, 1e-9)
	assert.Equal(t, "We achieve 85.5% accuracy.", entry.Evidence)
	assert.True(t, entry.DatasetMentioned)
	assert.Equal(t, "1706.03762", entry.ArxivID)
}

func TestNormalizeNullMetric(t *testing.T) {
	response := `{
		"paper_title": "A Theory Paper",
		"method_name": "Proof",
		"pipeline": "theory",
		"strategy": "analysis",
		"metric_value": null,
		"evidence": "",
		"dataset_mentioned": false
	}`

	entry, err := Normalize(response, "2301.00001")
	require.NoError(t, err)
	assert.Equal(t, types.MetricNotReported, entry.MetricValue)
	assert.False(t, entry.HasMetric())
}

func TestNormalizeRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantIn   string
	}{
		{
			"missing paper title",
			`{"method_name": "M", "dataset_mentioned": true}`,
			"paper_title",
		},
		{
			"blank paper title",
			`{"paper_title": "  ", "method_name": "M", "dataset_mentioned": true}`,
			"paper_title",
		},
		{
			"missing method",
			`{"paper_title": "T", "dataset_mentioned": true}`,
			"method_name",
		},
		{
			"missing dataset flag",
			`{"paper_title": "T", "method_name": "M"}`,
			"dataset_mentioned",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.response, "2301.00001")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestNormalizeRejectsMalformedJSON(t *testing.T) {
	_, err := Normalize("not json at all", "2301.00001")
	require.Error(t, err)
}
