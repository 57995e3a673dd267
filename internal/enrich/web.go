// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"github.com/jordansp99/academic-research-assistant/internal/httputil"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// fencedJSON matches a model response wrapped in a Markdown code fence.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// webMetadata is the structured object the model returns for an academic
// paper.
type webMetadata struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	PublicationDate string   `json:"publication_date"`
	Abstract        string   `json:"abstract"`
	DOI             string   `json:"doi"`
}

// enrichWeb resolves a web search stub: fetch the page (honoring robots),
// extract plain text from PDF or HTML, then ask the model to classify the
// text and extract metadata. Fetch or parse failure is terminal; only the
// model call is retried.
func (e *Enricher) enrichWeb(ctx context.Context, p types.Paper) types.Paper {
	text, err := e.fetchText(ctx, p.URL)
	if err != nil {
		e.Log.Error().Err(err).Str("url", p.URL).Msg("could not fetch or parse content")
		p.Authors = nil
		p.Abstract = types.SentinelFetchParseError
		p.Status = types.StatusFailed
		return p
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		p.Authors = nil
		p.Abstract = types.SentinelExtractionError
		p.Status = types.StatusFailed
		return p
	}

	e.Log.Info().Str("url", p.URL).Msg("running metadata extraction model")

	raw, err := e.callModel(ctx, prompt)
	if err != nil {
		e.Log.Error().Err(err).Str("url", p.URL).Msg("all model calls failed")
		p.Authors = nil
		p.Abstract = types.SentinelAPIError
		p.Status = types.StatusFailed
		return p
	}

	if strings.Contains(strings.ToLower(raw), nonPaperMarker) {
		e.Log.Info().Str("url", p.URL).Msg("skipping non-academic page")
		p.Status = types.StatusNonPaper
		return p
	}

	meta, err := parseModelResponse(raw)
	if err != nil {
		// Malformed but not lost: keep the raw response as the abstract.
		e.Log.Error().Err(err).Str("url", p.URL).Msg("could not parse model response")
		p.Abstract = raw
		p.Status = types.StatusComplete
		return p
	}

	p.Title = textOrUnknown(meta.Title)
	p.Authors = meta.Authors
	if len(p.Authors) == 0 {
		p.Authors = []string{types.FieldUnknown}
	}
	p.Year = textOrUnknown(meta.PublicationDate)
	p.Abstract = textOrUnknown(meta.Abstract)
	p.DOI = textOrUnknown(meta.DOI)
	p.Status = types.StatusComplete
	return p
}

// fetchText downloads the URL and extracts plain text according to the
// response content type.
func (e *Enricher) fetchText(ctx context.Context, url string) (string, error) {
	resp, err := httputil.Fetch(ctx, e.Client, e.Robots, url, e.Config.UserAgent)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/pdf") {
		return pdfText(body)
	}
	return htmlText(body)
}

// pdfText extracts the plain text of a PDF document.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting PDF text: %w", err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, content); err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}
	return b.String(), nil
}

// htmlText extracts the visible text of an HTML document.
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	return doc.Text(), nil
}

// parseModelResponse decodes the model's JSON object, tolerating a
// response wrapped in a fenced code block.
func parseModelResponse(raw string) (webMetadata, error) {
	jsonText := raw
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		jsonText = m[1]
	}

	var meta webMetadata
	if err := json.Unmarshal([]byte(jsonText), &meta); err != nil {
		return webMetadata{}, fmt.Errorf("parsing model response JSON: %w", err)
	}
	return meta, nil
}
