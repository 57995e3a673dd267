// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivClient queries the arXiv Atom API. Results arrive fully populated,
// so arXiv papers never pass through the enricher.
type ArxivClient struct {
	Client *http.Client
	Config types.SearchConfig
}

// Name returns the source identifier.
func (c *ArxivClient) Name() types.Source { return types.SourceArxiv }

// Search queries arXiv sorted by relevance and returns complete papers.
func (c *ArxivClient) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	terms := strings.Join(strings.Fields(query), "+")
	if terms == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	reqURL := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, terms, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		p := types.Paper{
			Title:    strings.TrimSpace(entry.Title),
			Abstract: strings.TrimSpace(entry.Summary),
			Source:   types.SourceArxiv,
			Venue:    types.FieldUnknown,
			Year:     types.FieldUnknown,
			DOI:      types.FieldUnknown,
			URL:      entry.ID,
			Status:   types.StatusComplete,
		}

		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, l := range entry.Links {
			if l.Title == "pdf" && l.Href != "" {
				p.URL = l.Href
			}
		}
		if entry.DOI != "" {
			p.DOI = entry.DOI
		}
		if ts, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Year = strconv.Itoa(ts.Year())
		}
		if p.Title == "" {
			p.Title = types.FieldUnknown
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}
