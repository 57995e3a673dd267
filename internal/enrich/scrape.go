// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jordansp99/academic-research-assistant/internal/httputil"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// scrapePage is the generic enrichment path for partial stubs from sites
// without a structured API: fetch the page (honoring robots and the
// politeness pause) and scrape semantic author/abstract markers. There is
// no LLM step; extraction is best effort.
func (e *Enricher) scrapePage(ctx context.Context, p types.Paper) types.Paper {
	e.wait(ctx)

	resp, err := httputil.Fetch(ctx, e.Client, e.Robots, p.URL, e.Config.UserAgent)
	if err != nil {
		e.Log.Error().Err(err).Str("url", p.URL).Msg("could not fetch page")
		return scrapeFailure(p, types.SentinelFetchError)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return scrapeFailure(p, types.SentinelExtractionError)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		e.Log.Error().Err(err).Str("url", p.URL).Msg("extraction failed")
		return scrapeFailure(p, types.SentinelExtractionError)
	}

	if len(p.Authors) == 0 {
		p.Authors = scrapeAuthors(doc)
	}
	if p.Abstract == "" || p.Abstract == types.FieldUnknown {
		p.Abstract = scrapeAbstract(doc)
	}
	p.Status = types.StatusComplete
	return p
}

// scrapeFailure marks the paper with the given abstract sentinel, keeping
// any authors it already had.
func scrapeFailure(p types.Paper, sentinel string) types.Paper {
	if len(p.Authors) == 0 {
		p.Authors = []string{types.FieldUnknown}
	}
	p.Abstract = sentinel
	p.Status = types.StatusFailed
	return p
}

// scrapeAuthors looks for standard citation meta tags first, then common
// author link classes.
func scrapeAuthors(doc *goquery.Document) []string {
	var authors []string
	doc.Find(`meta[name="citation_author"]`).Each(func(_ int, sel *goquery.Selection) {
		if content, ok := sel.Attr("content"); ok && content != "" {
			authors = append(authors, content)
		}
	})
	if len(authors) == 0 {
		doc.Find("a.author, a.authors").Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				authors = append(authors, text)
			}
		})
	}
	if len(authors) == 0 {
		return []string{types.FieldUnknown}
	}
	return authors
}

// scrapeAbstract looks for abstract container classes first, then citation
// and description meta tags.
func scrapeAbstract(doc *goquery.Document) string {
	if sel := doc.Find("div.abstract, div.abstract-content").First(); sel.Length() > 0 {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	if content, ok := doc.Find(`meta[name="citation_abstract"]`).First().Attr("content"); ok && content != "" {
		return content
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && content != "" {
		return content
	}
	return types.FieldUnknown
}
