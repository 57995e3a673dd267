// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coordinator

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// RequestFile is the on-disk representation of a search request and its
// results. A search can be saved to a file and reloaded later without
// re-querying the sources.
type RequestFile struct {
	Request types.SearchRequest `yaml:"request"`
	Papers  []types.Paper       `yaml:"papers"`
	Summary RequestSummary      `yaml:"summary"`
}

// RequestSummary stores result statistics and a timestamp.
type RequestSummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	NonPapersSkipped  int       `yaml:"non_papers_skipped"`
	SourceErrors      []string  `yaml:"source_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteRequestFile saves a request and its collected papers to a YAML file.
func WriteRequestFile(path string, req types.SearchRequest, papers []types.Paper, summary RequestSummary) error {
	rf := RequestFile{
		Request: req,
		Papers:  papers,
		Summary: summary,
	}
	if rf.Summary.Timestamp.IsZero() {
		rf.Summary.Timestamp = time.Now()
	}
	rf.Summary.Total = len(papers)

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling request file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRequestFile loads a previously saved request file from disk.
func ReadRequestFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	var rf RequestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	if rf.Request.IsEmpty() {
		return nil, fmt.Errorf("request file %s has no query", path)
	}
	return &rf, nil
}
