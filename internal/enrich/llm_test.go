// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"extracted metadata"}]}}]}`))
	}))
	defer ts.Close()

	oldBase := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = oldBase }()

	m := &GeminiModel{APIKey: "gk_test", Model: "gemini-flash-lite-latest", Client: ts.Client()}
	text, err := m.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "extracted metadata" {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(gotPath, "gemini-flash-lite-latest:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "gk_test" {
		t.Errorf("key = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "summarize this" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestGeminiGenerateHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota"}`))
	}))
	defer ts.Close()

	oldBase := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = oldBase }()

	m := &GeminiModel{APIKey: "k", Model: "m", Client: ts.Client()}
	if _, err := m.Generate(context.Background(), "p"); err == nil {
		t.Fatal("Generate() expected error for HTTP 429")
	} else if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	oldBase := geminiAPIBase
	geminiAPIBase = ts.URL
	defer func() { geminiAPIBase = oldBase }()

	m := &GeminiModel{APIKey: "k", Model: "m", Client: ts.Client()}
	if _, err := m.Generate(context.Background(), "p"); err == nil {
		t.Fatal("Generate() expected error for empty candidates")
	}
}
