// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich resolves missing paper metadata through a source-specific
// strategy chain: structured API fetch for PubMed, scrape-then-LLM for web
// results, and best-effort citation-tag scraping for everything else.
// Failures never escape Enrich; they become sentinel values on the paper.
package enrich

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jordansp99/academic-research-assistant/internal/httputil"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// Enricher fills in missing metadata on partially populated papers.
type Enricher struct {
	Client *http.Client
	Robots *httputil.RobotsCache
	Model  Model
	Config types.EnrichConfig
	Log    zerolog.Logger

	limiter *rate.Limiter
}

// New returns an enricher whose page scrapes are paced by cfg.ScrapeDelay.
func New(client *http.Client, robots *httputil.RobotsCache, model Model, cfg types.EnrichConfig, log zerolog.Logger) *Enricher {
	e := &Enricher{
		Client: client,
		Robots: robots,
		Model:  model,
		Config: cfg,
		Log:    log,
	}
	if cfg.ScrapeDelay > 0 {
		e.limiter = rate.NewLimiter(rate.Every(cfg.ScrapeDelay), 1)
	}
	return e
}

// Enrich returns the paper with its missing fields resolved. It is an
// idempotent no-op for papers that already carry an abstract and authors:
// the input is returned unchanged and no network calls are made. Once
// Enrich returns, the record is final — every field holds real data,
// "N/A", or an error sentinel.
func (e *Enricher) Enrich(ctx context.Context, p types.Paper) types.Paper {
	if !p.NeedsEnrichment() {
		return p
	}
	if p.URL == "" {
		p.Authors = nil
		p.Abstract = types.FieldUnknown
		p.Status = types.StatusFailed
		return p
	}

	e.Log.Info().Str("url", p.URL).Msg("extracting missing metadata")

	switch {
	case strings.Contains(p.URL, "pubmed.ncbi.nlm.nih.gov"):
		return e.enrichPubMed(ctx, p)
	case p.Source == types.SourceWeb:
		return e.enrichWeb(ctx, p)
	default:
		return e.scrapePage(ctx, p)
	}
}

// wait applies the politeness pause before a page or API fetch.
func (e *Enricher) wait(ctx context.Context) {
	if e.limiter != nil {
		_ = e.limiter.Wait(ctx)
	}
}

// backoffBase controls the base duration for exponential backoff on model
// calls. Tests override this to avoid real sleeps.
var backoffBase = 2 * time.Second

// backoffDelay returns the wait after the given zero-based failed attempt:
// 2 s, 4 s, 8 s with the default base.
func backoffDelay(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * backoffBase
}

// callModel invokes the language model with bounded retry. Every failed
// attempt is followed by an exponential backoff wait; after maxAttempts
// failures the last error is returned.
func (e *Enricher) callModel(ctx context.Context, prompt string) (string, error) {
	maxAttempts := e.Config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := e.Model.Generate(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		e.Log.Warn().Err(err).Int("attempt", attempt+1).Int("max", maxAttempts).Msg("model call failed")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoffDelay(attempt)):
		}
	}
	return "", lastErr
}
