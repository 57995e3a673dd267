// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// pubmedSearchBase is the PubMed esearch endpoint. Declared as a var so
// tests can substitute an httptest server.
var pubmedSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"

// PubMedClient queries PubMed E-utilities. The ID search returns only
// PMIDs, so each result is a deliberately incomplete stub; the enricher
// performs the per-article efetch call.
type PubMedClient struct {
	Client *http.Client
	Config types.SearchConfig
}

// Name returns the source identifier.
func (c *PubMedClient) Name() types.Source { return types.SourcePubMed }

// Search runs the esearch phase and returns one stub paper per PMID.
func (c *PubMedClient) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if query == "" {
		return nil, fmt.Errorf("empty PubMed query")
	}

	params := url.Values{
		"db":     {"pubmed"},
		"term":   {query},
		"retmax": {strconv.Itoa(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PubMed esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed esearch returned HTTP %d", resp.StatusCode)
	}

	var sr pubmedSearchResult
	if err := xml.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing PubMed esearch response: %w", err)
	}

	var papers []types.Paper
	for _, pmid := range sr.IDs {
		papers = append(papers, types.Paper{
			Source: types.SourcePubMed,
			URL:    fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid),
			Status: types.StatusPending,
		})
	}
	return papers, nil
}

// pubmedSearchResult maps the eSearchResult XML document.
type pubmedSearchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	IDs     []string `xml:"IdList>Id"`
}
