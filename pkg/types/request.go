// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchRequest holds one user search: the free-text query plus per-source
// enable flags and result limits. A request is created per search and
// discarded when the search completes.
type SearchRequest struct {
	Query string `json:"query" yaml:"query"`

	Arxiv           bool `json:"arxiv" yaml:"arxiv"`
	PubMed          bool `json:"pubmed" yaml:"pubmed"`
	SemanticScholar bool `json:"semantic_scholar" yaml:"semantic_scholar"`
	Web             bool `json:"web" yaml:"web"`

	ArxivLimit           int `json:"arxiv_limit" yaml:"arxiv_limit"`
	PubMedLimit          int `json:"pubmed_limit" yaml:"pubmed_limit"`
	SemanticScholarLimit int `json:"semantic_scholar_limit" yaml:"semantic_scholar_limit"`
	WebLimit             int `json:"web_limit" yaml:"web_limit"`
}

// DefaultLimit is applied to any enabled source whose limit is unset.
const DefaultLimit = 20

// Normalize fills unset limits with DefaultLimit.
func (r *SearchRequest) Normalize() {
	if r.ArxivLimit <= 0 {
		r.ArxivLimit = DefaultLimit
	}
	if r.PubMedLimit <= 0 {
		r.PubMedLimit = DefaultLimit
	}
	if r.SemanticScholarLimit <= 0 {
		r.SemanticScholarLimit = DefaultLimit
	}
	if r.WebLimit <= 0 {
		r.WebLimit = DefaultLimit
	}
}

// IsEmpty reports whether the request has no query text.
func (r SearchRequest) IsEmpty() bool {
	return r.Query == ""
}

// EnabledCount returns how many sources the request enables.
func (r SearchRequest) EnabledCount() int {
	n := 0
	for _, on := range []bool{r.Arxiv, r.PubMed, r.SemanticScholar, r.Web} {
		if on {
			n++
		}
	}
	return n
}
