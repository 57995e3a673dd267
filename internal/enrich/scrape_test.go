// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

func genericStub(url string) types.Paper {
	return types.Paper{
		Source: types.SourceSemanticScholar,
		Title:  "Partial Stub",
		URL:    url,
		Status: types.StatusPending,
	}
}

func TestScrapeCitationMetaTags(t *testing.T) {
	page := `<html><head>
		<meta name="citation_author" content="Marie Curie">
		<meta name="citation_author" content="Rosalind Franklin">
		<meta name="citation_abstract" content="Meta abstract.">
	</head><body></body></html>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer ts.Close()

	e := newTestEnricher(t, ts.Client(), nil)
	p := e.Enrich(context.Background(), genericStub(ts.URL+"/article"))

	if len(p.Authors) != 2 || p.Authors[0] != "Marie Curie" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Abstract != "Meta abstract." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if p.Status != types.StatusComplete {
		t.Errorf("Status = %q, want complete", p.Status)
	}
}

func TestScrapeClassHeuristicsFallback(t *testing.T) {
	page := `<html><body>
		<a class="author" href="#">Grace Hopper</a>
		<div class="abstract-content">  Body abstract.  </div>
	</body></html>`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer ts.Close()

	e := newTestEnricher(t, ts.Client(), nil)
	p := e.Enrich(context.Background(), genericStub(ts.URL+"/article"))

	if len(p.Authors) != 1 || p.Authors[0] != "Grace Hopper" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Abstract != "Body abstract." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
}

func TestScrapeNoMarkersYieldsUnknowns(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><p>Nothing semantic here.</p></body></html>"))
	}))
	defer ts.Close()

	e := newTestEnricher(t, ts.Client(), nil)
	p := e.Enrich(context.Background(), genericStub(ts.URL+"/bare"))

	if len(p.Authors) != 1 || p.Authors[0] != types.FieldUnknown {
		t.Errorf("Authors = %v, want N/A marker", p.Authors)
	}
	if p.Abstract != types.FieldUnknown {
		t.Errorf("Abstract = %q, want N/A", p.Abstract)
	}
}

func TestScrapeTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	ts.Close()

	e := newTestEnricher(t, http.DefaultClient, nil)
	p := e.Enrich(context.Background(), genericStub(ts.URL+"/article"))

	if p.Abstract != types.SentinelFetchError {
		t.Errorf("Abstract = %q, want %q", p.Abstract, types.SentinelFetchError)
	}
	if p.Status != types.StatusFailed {
		t.Errorf("Status = %q, want failed", p.Status)
	}
	// The stub keeps its title; only missing fields get sentinels.
	if p.Title != "Partial Stub" {
		t.Errorf("Title = %q, want unchanged", p.Title)
	}
}
