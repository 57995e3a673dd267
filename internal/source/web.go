// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// webSearchBase is the DuckDuckGo HTML search endpoint. Declared as a var
// so tests can substitute an httptest server.
var webSearchBase = "https://html.duckduckgo.com/html/"

// webQueryHint is appended to the user query to bias results toward
// directly linked papers.
const webQueryHint = "academic papers filetype:pdf"

// WebClient runs a keyword search against the DuckDuckGo HTML frontend.
// Result links become stub papers; all metadata extraction is left to the
// enricher's scrape-and-LLM chain.
type WebClient struct {
	Client *http.Client
	Config types.SearchConfig
}

// Name returns the source identifier.
func (c *WebClient) Name() types.Source { return types.SourceWeb }

// Search issues the hinted keyword search and returns one stub paper per
// result URL.
func (c *WebClient) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if query == "" {
		return nil, fmt.Errorf("empty web query")
	}

	params := url.Values{"q": {query + " " + webQueryHint}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, webSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing web search response: %w", err)
	}

	var papers []types.Paper
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		target := resolveResultURL(href)
		if target == "" {
			return true
		}
		papers = append(papers, types.Paper{
			Source: types.SourceWeb,
			URL:    target,
			Status: types.StatusPending,
		})
		return len(papers) < limit
	})
	return papers, nil
}

// resolveResultURL unwraps DuckDuckGo's redirect links, which carry the
// destination in a "uddg" query parameter. Plain links pass through.
func resolveResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}
