// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research assistant.
package types

// Source identifies the bibliographic backend that produced a paper.
type Source string

const (
	SourceArxiv           Source = "arXiv"
	SourcePubMed          Source = "PubMed"
	SourceSemanticScholar Source = "Semantic Scholar"
	SourceWeb             Source = "Web"
)

// FieldUnknown marks a metadata field whose value could not be determined.
const FieldUnknown = "N/A"

// Sentinel values stored in Paper fields when enrichment fails. They make
// failed extractions visibly distinguishable from genuinely absent data in
// persisted output.
const (
	SentinelExtractionFailed = "Extraction Failed"
	SentinelFetchParseError  = "Fetch/Parse Error"
	SentinelAPIError         = "API Error"
	SentinelFetchError       = "Fetch Error"
	SentinelExtractionError  = "Extraction Error"
)

// EnrichmentStatus records the outcome of metadata enrichment for a paper.
type EnrichmentStatus string

const (
	// StatusPending means the paper has not been through enrichment yet.
	StatusPending EnrichmentStatus = "pending"

	// StatusComplete means the paper carries real metadata, either from the
	// source directly or filled in by enrichment.
	StatusComplete EnrichmentStatus = "complete"

	// StatusNonPaper means the fetched content was classified as not an
	// academic paper. The record keeps its original fields and is excluded
	// from found-paper events.
	StatusNonPaper EnrichmentStatus = "non_paper"

	// StatusFailed means enrichment finished with sentinel values in place
	// of real metadata.
	StatusFailed EnrichmentStatus = "failed"
)

// Paper is the unified record produced by the source clients and completed
// by the enricher. Source and URL are always set from creation; the other
// fields may hold FieldUnknown or a sentinel once enrichment has finished.
type Paper struct {
	// Title is the paper title, or "N/A" when unknown.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order. Empty until enrichment.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract, "N/A", or an error sentinel.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Source identifies the backend that found this paper.
	Source Source `json:"source" yaml:"source"`

	// Venue is the journal or venue name, or "N/A".
	Venue string `json:"venue" yaml:"venue"`

	// Year is a 4-digit year or a source-provided date string, or "N/A".
	Year string `json:"year" yaml:"year"`

	// DOI is the resolved DOI, or "N/A".
	DOI string `json:"doi" yaml:"doi"`

	// URL is the paper's location and the identity fallback when DOI is absent.
	URL string `json:"url" yaml:"url"`

	// Status records the enrichment outcome.
	Status EnrichmentStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Identity returns the deduplication key: the DOI when present and known,
// otherwise the URL. Two papers with the same identity are duplicates
// regardless of which source found them.
func (p Paper) Identity() string {
	if p.DOI != "" && p.DOI != FieldUnknown {
		return "doi:" + p.DOI
	}
	return "url:" + p.URL
}

// NeedsEnrichment reports whether the paper is missing its abstract or
// author list and should be routed through the enricher.
func (p Paper) NeedsEnrichment() bool {
	if p.Abstract == "" || p.Abstract == FieldUnknown {
		return true
	}
	return len(p.Authors) == 0
}
