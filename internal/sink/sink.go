// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink collects papers from concurrent source tasks, removes
// duplicates, and persists the digest to disk.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// DefaultPath is where the digest is written when no path is configured.
const DefaultPath = "research_digest.json"

// Digest accumulates deduplicated papers. It is the only state shared
// between source tasks, so all access goes through the mutex.
type Digest struct {
	mu     sync.Mutex
	papers []types.Paper
	seen   map[string]bool
	dups   int

	path    string
	saveErr error

	log zerolog.Logger
}

// NewDigest returns an empty digest that saves to path.
func NewDigest(path string, log zerolog.Logger) *Digest {
	if path == "" {
		path = DefaultPath
	}
	return &Digest{
		seen: make(map[string]bool),
		path: path,
		log:  log,
	}
}

// Add records a paper unless one with the same identity is already
// present. The first occurrence wins; later duplicates are dropped
// regardless of which source produced them. Returns whether the paper
// was added.
func (d *Digest) Add(p types.Paper) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := p.Identity()
	if key != "" && d.seen[key] {
		d.dups++
		d.log.Debug().Str("key", key).Str("title", p.Title).Msg("duplicate dropped")
		return false
	}
	if key != "" {
		d.seen[key] = true
	}
	d.papers = append(d.papers, p)
	return true
}

// Papers returns a copy of the collected papers in insertion order.
func (d *Digest) Papers() []types.Paper {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]types.Paper, len(d.papers))
	copy(out, d.papers)
	return out
}

// Len returns the number of collected papers.
func (d *Digest) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.papers)
}

// Duplicates returns how many papers were dropped as duplicates.
func (d *Digest) Duplicates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dups
}

// SaveError returns the error from the most recent Save, or nil.
func (d *Digest) SaveError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveErr
}

// record fixes the key order of the persisted JSON. Struct field order
// is the serialization order.
type record struct {
	Authors  []string `json:"authors"`
	Year     string   `json:"year"`
	Title    string   `json:"title"`
	Source   string   `json:"source"`
	Venue    string   `json:"venue"`
	DOI      string   `json:"doi"`
	URL      string   `json:"url"`
	Abstract string   `json:"abstract"`
}

// Save writes the digest as a JSON array. A write failure leaves the
// in-memory papers intact and is reported both as the return value and
// through SaveError; the search itself is never aborted by it.
func (d *Digest) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	records := make([]record, 0, len(d.papers))
	for _, p := range d.papers {
		records = append(records, record{
			Authors:  p.Authors,
			Year:     p.Year,
			Title:    p.Title,
			Source:   string(p.Source),
			Venue:    p.Venue,
			DOI:      p.DOI,
			URL:      p.URL,
			Abstract: p.Abstract,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		d.saveErr = fmt.Errorf("marshaling digest: %w", err)
		return d.saveErr
	}
	if err := os.WriteFile(d.path, append(data, '\n'), 0o644); err != nil {
		d.saveErr = fmt.Errorf("writing digest: %w", err)
		d.log.Error().Err(err).Str("path", d.path).Msg("digest save failed")
		return d.saveErr
	}
	d.saveErr = nil
	return nil
}

// Path returns the digest's output path.
func (d *Digest) Path() string {
	return d.path
}
