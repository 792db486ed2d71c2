// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiBackendAnalyze(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": `{"ok": true}`}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	origBase := geminiAPIBase
	geminiAPIBase = server.URL
	defer func() { geminiAPIBase = origBase }()

	backend := &GeminiBackend{APIKey: "test-key", Model: "gemini-2.5-flash"}
	text, err := backend.Analyze(context.Background(), "extract the entry")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if text != `{"ok": true}` {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "extract the entry" {
		t.Errorf("request contents = %+v", gotReq.Contents)
	}
	if gotReq.GenerationConfig.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", gotReq.GenerationConfig.Temperature)
	}
	if gotReq.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("responseMimeType = %q", gotReq.GenerationConfig.ResponseMimeType)
	}
	if len(gotReq.GenerationConfig.ResponseSchema) == 0 {
		t.Error("responseSchema not sent")
	}
}

func TestGeminiBackendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	origBase := geminiAPIBase
	geminiAPIBase = server.URL
	defer func() { geminiAPIBase = origBase }()

	backend := &GeminiBackend{APIKey: "test-key", Model: "gemini-2.5-flash"}
	_, err := backend.Analyze(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry status code, got %v", err)
	}
}

func TestGeminiBackendNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	origBase := geminiAPIBase
	geminiAPIBase = server.URL
	defer func() { geminiAPIBase = origBase }()

	backend := &GeminiBackend{APIKey: "test-key", Model: "gemini-2.5-flash"}
	_, err := backend.Analyze(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error on empty candidates")
	}
}
