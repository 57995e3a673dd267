// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coordinator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

func TestRequestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")

	req := types.SearchRequest{Query: "graph neural networks", Arxiv: true, Web: true, ArxivLimit: 5}
	papers := []types.Paper{
		{Title: "GNNs", Authors: []string{"Ada Lovelace"}, Source: types.SourceArxiv, Year: "2023", Status: types.StatusComplete},
	}
	summary := RequestSummary{DuplicatesRemoved: 2, SourceErrors: []string{"PubMed: api down"}}

	if err := WriteRequestFile(path, req, papers, summary); err != nil {
		t.Fatalf("WriteRequestFile() error = %v", err)
	}

	rf, err := ReadRequestFile(path)
	if err != nil {
		t.Fatalf("ReadRequestFile() error = %v", err)
	}
	if rf.Request.Query != req.Query || !rf.Request.Arxiv || rf.Request.ArxivLimit != 5 {
		t.Errorf("Request = %+v", rf.Request)
	}
	if len(rf.Papers) != 1 || rf.Papers[0].Title != "GNNs" {
		t.Errorf("Papers = %+v", rf.Papers)
	}
	if rf.Summary.Total != 1 || rf.Summary.DuplicatesRemoved != 2 {
		t.Errorf("Summary = %+v", rf.Summary)
	}
	if rf.Summary.Timestamp.IsZero() {
		t.Error("Summary.Timestamp not set")
	}
}

func TestReadRequestFileMissing(t *testing.T) {
	if _, err := ReadRequestFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("ReadRequestFile() expected error for missing file")
	}
}

func TestReadRequestFileEmptyQueryRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("request:\n  query: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRequestFile(path); err == nil {
		t.Fatal("ReadRequestFile() expected error for empty query")
	}
}
