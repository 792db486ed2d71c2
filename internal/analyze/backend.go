// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Backend abstracts the Generative AI API so tests can supply a mock. An
// implementation takes one fully rendered prompt and returns the model's raw
// JSON text, treating the service as an opaque prompt -> JSON | failure
// function.
type Backend interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// geminiAPIBase is the Gemini API endpoint. Package-level var for test
// substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// entrySchema constrains the model's JSON output to the SOTA entry shape.
// Gemini enforces it server-side when passed as responseSchema.
var entrySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "paper_title": {"type": "string"},
    "method_name": {"type": "string"},
    "pipeline": {"type": "string"},
    "strategy": {"type": "string"},
    "metric_value": {"type": "string", "nullable": true},
    "evidence": {"type": "string"},
    "dataset_mentioned": {"type": "boolean"}
  },
  "required": ["paper_title", "method_name", "pipeline", "strategy", "dataset_mentioned"]
}`)

// GeminiBackend calls the Gemini generateContent API with JSON-constrained,
// deterministic output.
type GeminiBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Analyze submits the prompt and returns the first candidate's text, which
// the response schema guarantees is a JSON document.
func (g *GeminiBackend) Analyze(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
			ResponseSchema:   entrySchema,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}
	return gResp.Candidates[0].Content.Parts[0].Text, nil
}
