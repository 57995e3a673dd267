// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// pubmedFetchBase is the PubMed efetch endpoint. Declared as a var so
// tests can substitute an httptest server.
var pubmedFetchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

var yearPattern = regexp.MustCompile(`\d{4}`)

// enrichPubMed completes a PubMed stub with a single efetch call. The call
// is never retried: transport or parse failure marks the paper with
// "Extraction Failed" sentinels and ends enrichment.
func (e *Enricher) enrichPubMed(ctx context.Context, p types.Paper) types.Paper {
	e.wait(ctx)

	pmid := pmidFromURL(p.URL)

	article, err := e.fetchArticle(ctx, pmid)
	if err != nil {
		e.Log.Error().Err(err).Str("url", p.URL).Msg("PubMed efetch failed")
		p.Title = types.SentinelExtractionFailed
		p.Authors = nil
		p.Abstract = types.SentinelExtractionFailed
		p.Status = types.StatusFailed
		return p
	}

	p.Title = textOrUnknown(article.Title)
	p.Authors = article.authorNames()
	if len(p.Authors) == 0 {
		p.Authors = []string{types.FieldUnknown}
	}
	p.Abstract = textOrUnknown(strings.TrimSpace(strings.Join(article.AbstractParts, " ")))
	p.Venue = textOrUnknown(article.Journal)
	p.Year = article.year()
	p.DOI = textOrUnknown(article.doi())
	p.Status = types.StatusComplete

	e.Log.Info().Str("url", p.URL).Msg("extracted PubMed metadata")
	return p
}

func (e *Enricher) fetchArticle(ctx context.Context, pmid string) (*pubmedArticle, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.Config.UserAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PubMed efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed efetch response: %w", err)
	}
	if len(set.Articles) == 0 {
		return nil, fmt.Errorf("no article found for PMID %s", pmid)
	}
	return &set.Articles[0], nil
}

// pmidFromURL extracts the PMID from a PubMed article URL
// (e.g. "https://pubmed.ncbi.nlm.nih.gov/36038613/" → "36038613").
func pmidFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func textOrUnknown(s string) string {
	if s == "" {
		return types.FieldUnknown
	}
	return s
}

// PubMed efetch XML structures.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Title         string          `xml:"MedlineCitation>Article>ArticleTitle"`
	AbstractParts []string        `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Journal       string          `xml:"MedlineCitation>Article>Journal>Title"`
	PubYear       string          `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	MedlineDate   string          `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>MedlineDate"`
	Authors       []pubmedAuthor  `xml:"MedlineCitation>Article>AuthorList>Author"`
	ArticleIDs    []pubmedArticleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type pubmedAuthor struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type pubmedArticleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}

func (a *pubmedArticle) authorNames() []string {
	var names []string
	for _, au := range a.Authors {
		if au.ForeName != "" && au.LastName != "" {
			names = append(names, au.ForeName+" "+au.LastName)
		}
	}
	return names
}

// year prefers the structured PubDate year and falls back to the first
// 4-digit run in the free-form MedlineDate.
func (a *pubmedArticle) year() string {
	if a.PubYear != "" {
		return a.PubYear
	}
	if m := yearPattern.FindString(a.MedlineDate); m != "" {
		return m
	}
	return types.FieldUnknown
}

func (a *pubmedArticle) doi() string {
	for _, id := range a.ArticleIDs {
		if id.IDType == "doi" {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}
