// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coordinator fans a search request out to the enabled source
// clients, routes incomplete results through the enricher, and reports
// progress as a stream of events.
package coordinator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jordansp99/academic-research-assistant/internal/source"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// EventKind distinguishes the coordinator's progress events.
type EventKind int

const (
	// EventPaperFound carries one fully formed paper. Results the model
	// classified as non-papers are never surfaced with this event.
	EventPaperFound EventKind = iota

	// EventSourceDone signals that one source's task (search plus any
	// per-item enrichment) has finished, with its counts. Emitted even
	// when the source produced zero results or failed outright.
	EventSourceDone

	// EventAllDone signals that every enabled source has completed. It is
	// the last event before the channel closes.
	EventAllDone
)

// Event is one progress notification from a running search.
type Event struct {
	Kind   EventKind
	Source types.Source

	// Paper is set for EventPaperFound.
	Paper types.Paper

	// Per-source counts, set for EventSourceDone. Found counts surfaced
	// papers (including ones carrying failure sentinels), Skipped counts
	// non-paper results, Failed counts papers whose enrichment failed.
	Found   int
	Skipped int
	Failed  int

	// Err is set on EventSourceDone when the source's query itself failed.
	Err error
}

// Enricher completes partially populated papers. Satisfied by
// *enrich.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, p types.Paper) types.Paper
}

// Coordinator runs multi-source searches.
type Coordinator struct {
	Clients  []source.Client
	Enricher Enricher
	Log      zerolog.Logger
}

// Search launches one concurrent task per enabled source and returns the
// event stream. The stream carries papers as they become ready, one
// EventSourceDone per enabled source, and a final EventAllDone, after
// which the channel is closed. A dispatched search runs each source task
// to completion; there is no mid-search cancellation beyond ctx.
func (c *Coordinator) Search(ctx context.Context, req types.SearchRequest) <-chan Event {
	req.Normalize()
	events := make(chan Event, 16)

	c.Log.Info().Str("query", req.Query).Int("sources", req.EnabledCount()).Msg("starting search")

	var wg sync.WaitGroup
	for _, client := range c.Clients {
		enabled, limit := sourceSettings(client.Name(), req)
		if !enabled {
			continue
		}
		wg.Add(1)
		go func(client source.Client, limit int) {
			defer wg.Done()
			c.runSource(ctx, client, req.Query, limit, events)
		}(client, limit)
	}

	go func() {
		wg.Wait()
		events <- Event{Kind: EventAllDone}
		close(events)
	}()

	return events
}

// runSource executes one source's search and, for sources that return
// stubs, enriches each result sequentially before surfacing it. The
// sequential per-source enrichment is a deliberate politeness trade-off.
func (c *Coordinator) runSource(ctx context.Context, client source.Client, query string, limit int, events chan<- Event) {
	name := client.Name()
	c.Log.Info().Str("source", string(name)).Msg("starting source search")

	papers, err := client.Search(ctx, query, limit)
	if err != nil {
		c.Log.Error().Err(err).Str("source", string(name)).Msg("source search failed")
		events <- Event{Kind: EventSourceDone, Source: name, Err: err}
		return
	}

	c.Log.Info().Str("source", string(name)).Int("results", len(papers)).Msg("source search finished")

	var found, skipped, failed int
	enrichable := name == types.SourcePubMed || name == types.SourceWeb

	for _, p := range papers {
		if enrichable {
			p = c.Enricher.Enrich(ctx, p)
		}
		if p.Status == types.StatusNonPaper {
			skipped++
			continue
		}
		if p.Status == types.StatusFailed {
			failed++
		}
		found++
		events <- Event{Kind: EventPaperFound, Source: name, Paper: p}
	}

	events <- Event{Kind: EventSourceDone, Source: name, Found: found, Skipped: skipped, Failed: failed}
}

// sourceSettings returns the enable flag and result limit for a source.
func sourceSettings(name types.Source, req types.SearchRequest) (bool, int) {
	switch name {
	case types.SourceArxiv:
		return req.Arxiv, req.ArxivLimit
	case types.SourcePubMed:
		return req.PubMed, req.PubMedLimit
	case types.SourceSemanticScholar:
		return req.SemanticScholar, req.SemanticScholarLimit
	case types.SourceWeb:
		return req.Web, req.WebLimit
	default:
		return false, 0
	}
}
