// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jordansp99/academic-research-assistant/internal/httputil"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,venue,url"

// SemanticScholarClient queries the Semantic Scholar Graph API. An API key
// raises the rate limit; without one the client runs unauthenticated and
// logs a warning once.
type SemanticScholarClient struct {
	Client *http.Client
	Config types.SearchConfig
	Log    zerolog.Logger

	warnOnce sync.Once
}

// Name returns the source identifier.
func (c *SemanticScholarClient) Name() types.Source { return types.SourceSemanticScholar }

// Search queries the Semantic Scholar API and returns complete papers.
func (c *SemanticScholarClient) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if query == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}
	if c.Config.SemanticScholarAPIKey == "" {
		c.warnOnce.Do(func() {
			c.Log.Warn().Msg("no Semantic Scholar API key configured, using unauthenticated rate limits")
		})
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.SemanticScholarAPIKey != "" {
		req.Header.Set("x-api-key", c.Config.SemanticScholarAPIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httputil.StatusError{Code: resp.StatusCode, URL: semanticAPIBase}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var papers []types.Paper
	for _, sp := range sr.Data {
		p := types.Paper{
			Title:    sp.Title,
			Abstract: sp.Abstract,
			Source:   types.SourceSemanticScholar,
			Venue:    sp.Venue,
			Year:     types.FieldUnknown,
			DOI:      types.FieldUnknown,
			URL:      sp.URL,
			Status:   types.StatusComplete,
		}

		for _, a := range sp.Authors {
			p.Authors = append(p.Authors, a.Name)
		}
		if sp.Year > 0 {
			p.Year = strconv.Itoa(sp.Year)
		}
		if sp.ExternalIDs.DOI != "" {
			p.DOI = sp.ExternalIDs.DOI
		}
		if p.URL == "" {
			p.URL = "https://www.semanticscholar.org/paper/" + sp.PaperID
		}
		if p.Title == "" {
			p.Title = types.FieldUnknown
		}
		if p.Venue == "" {
			p.Venue = types.FieldUnknown
		}
		if p.Abstract == "" {
			p.Abstract = types.FieldUnknown
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	Year        int                 `json:"year"`
	Venue       string              `json:"venue"`
	URL         string              `json:"url"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
