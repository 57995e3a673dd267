// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays intact", "Deep Learning", 50, "Deep Learning"},
		{"exact length stays intact", strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{"long gets ellipsis", strings.Repeat("a", 60), 50, strings.Repeat("a", 47) + "..."},
		{"multi-byte runes cut whole", strings.Repeat("ü", 60), 50, strings.Repeat("ü", 47) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate() produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestSelectPapers(t *testing.T) {
	papers := []types.Paper{
		{Title: "One"}, {Title: "Two"}, {Title: "Three"}, {Title: "Four"}, {Title: "Five"},
	}

	got, err := selectPapers(papers, "1,3-4")
	if err != nil {
		t.Fatalf("selectPapers() error = %v", err)
	}
	if len(got) != 3 || got[0].Title != "One" || got[1].Title != "Three" || got[2].Title != "Four" {
		t.Errorf("selection = %+v", got)
	}

	for _, bad := range []string{"0", "x", "3-1", ""} {
		if _, err := selectPapers(papers, bad); err == nil {
			t.Errorf("selectPapers(%q) expected error", bad)
		}
	}
}
