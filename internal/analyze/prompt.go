// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/pdiddy/sota-agent/pkg/types"
)

// extractionPromptTmpl is the prompt sent to the model for each paper. It
// pins the target dataset and metric, restricts the taxonomy to the
// configured pipeline stages, and spells out the metric-normalization and
// evidence rules the normalizer depends on.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are an automated data extraction agent. Your goal is to extract state-of-the-art (SOTA) leaderboard data from one research paper.

--- TARGETS ---
DATASET: {{.Dataset}}
METRIC: {{.MetricName}} (description: {{.MetricDescription}})

--- ALLOWED STAGES ---
Classify the method into exactly one of these pipeline stages:
{{.Stages}}

--- INSTRUCTIONS ---
1. paper_title: the full title of the paper.
2. method_name: prefer the acronym. If none, use the shortest distinct name.
3. pipeline: one of the allowed stages above.
4. strategy: the specific algorithmic strategy used within that stage.
5. metric_value: the exact numeric value reported for {{.MetricName}}.
   - If the text says "85.5%", return "85.5%".
   - If not reported, set to null.
6. evidence: a direct, verbatim quote from the paper supporting the metric.
7. dataset_mentioned: whether {{.Dataset}} is explicitly evaluated.

Respond with a single JSON object and nothing else.

TITLE: {{.Title}}

ABSTRACT: {{.Abstract}}

MAIN TEXT: {{.Text}}
`))

// buildPrompt renders the extraction prompt for one paper. The main text is
// the relevant-section assembly without the metadata abstract, which is
// already carried in its own slot.
func buildPrompt(p *types.Paper, cfg types.AnalysisConfig) (string, error) {
	stages := make([]string, len(cfg.PipelineStages))
	for i, s := range cfg.PipelineStages {
		stages[i] = "'" + s + "'"
	}

	data := struct {
		Dataset           string
		MetricName        string
		MetricDescription string
		Stages            string
		Title             string
		Abstract          string
		Text              string
	}{
		Dataset:           cfg.Dataset,
		MetricName:        cfg.MetricName,
		MetricDescription: cfg.MetricDescription,
		Stages:            strings.Join(stages, ", "),
		Title:             p.Metadata["title"],
		Abstract:          p.Metadata["abstract"],
		Text:              p.TextForLLM(cfg.MaxChars, false),
	}

	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
