// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coordinator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jordansp99/academic-research-assistant/internal/source"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

func clients(cs ...source.Client) []source.Client { return cs }

// fakeClient is a scripted source client.
type fakeClient struct {
	name   types.Source
	papers []types.Paper
	err    error
	delay  time.Duration
}

func (f *fakeClient) Name() types.Source { return f.name }

func (f *fakeClient) Search(ctx context.Context, _ string, limit int) ([]types.Paper, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.papers) {
		return f.papers[:limit], nil
	}
	return f.papers, nil
}

// fakeEnricher marks papers complete and records which ones it saw.
type fakeEnricher struct {
	seen     []string
	nonPaper map[string]bool
	fail     map[string]bool
}

func (f *fakeEnricher) Enrich(_ context.Context, p types.Paper) types.Paper {
	f.seen = append(f.seen, p.URL)
	switch {
	case f.nonPaper[p.URL]:
		p.Status = types.StatusNonPaper
	case f.fail[p.URL]:
		p.Abstract = types.SentinelAPIError
		p.Status = types.StatusFailed
	default:
		p.Abstract = "enriched"
		p.Status = types.StatusComplete
	}
	return p
}

func paper(src types.Source, url string) types.Paper {
	return types.Paper{Source: src, URL: url, Status: types.StatusPending}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var all []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return all
			}
			all = append(all, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func sourceDone(t *testing.T, all []Event, src types.Source) Event {
	t.Helper()
	for _, ev := range all {
		if ev.Kind == EventSourceDone && ev.Source == src {
			return ev
		}
	}
	t.Fatalf("no EventSourceDone for %s", src)
	return Event{}
}

func TestSearchFansOutToEnabledSources(t *testing.T) {
	arxiv := &fakeClient{name: types.SourceArxiv, papers: []types.Paper{
		{Source: types.SourceArxiv, Title: "A1", URL: "https://arxiv.org/abs/1", Status: types.StatusComplete},
	}}
	web := &fakeClient{name: types.SourceWeb, papers: []types.Paper{
		paper(types.SourceWeb, "https://example.org/w1"),
	}}
	pubmed := &fakeClient{name: types.SourcePubMed, papers: []types.Paper{
		paper(types.SourcePubMed, "https://pubmed.ncbi.nlm.nih.gov/1/"),
	}}

	enr := &fakeEnricher{}
	c := &Coordinator{Clients: clients(arxiv, pubmed, web), Enricher: enr, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", Arxiv: true, PubMed: true, Web: true}
	all := collect(t, c.Search(context.Background(), req))

	var papers, dones int
	for _, ev := range all {
		switch ev.Kind {
		case EventPaperFound:
			papers++
		case EventSourceDone:
			dones++
		}
	}
	if papers != 3 {
		t.Errorf("PaperFound events = %d, want 3", papers)
	}
	if dones != 3 {
		t.Errorf("SourceDone events = %d, want 3 (one per enabled source)", dones)
	}
	if last := all[len(all)-1]; last.Kind != EventAllDone {
		t.Errorf("last event kind = %d, want EventAllDone", last.Kind)
	}

	// Only the stub sources went through the enricher.
	if len(enr.seen) != 2 {
		t.Errorf("enriched URLs = %v, want the PubMed and Web stubs only", enr.seen)
	}
}

func TestSearchSkipsDisabledSources(t *testing.T) {
	arxiv := &fakeClient{name: types.SourceArxiv, papers: []types.Paper{
		{Source: types.SourceArxiv, Title: "A1", Status: types.StatusComplete},
	}}
	semantic := &fakeClient{name: types.SourceSemanticScholar, err: fmt.Errorf("must not run")}

	c := &Coordinator{Clients: clients(arxiv, semantic), Enricher: &fakeEnricher{}, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", Arxiv: true}
	all := collect(t, c.Search(context.Background(), req))

	for _, ev := range all {
		if ev.Source == types.SourceSemanticScholar {
			t.Errorf("got event for disabled source: %+v", ev)
		}
	}
	done := sourceDone(t, all, types.SourceArxiv)
	if done.Found != 1 {
		t.Errorf("arXiv Found = %d, want 1", done.Found)
	}
}

func TestSearchSourceFailureIsIsolated(t *testing.T) {
	arxiv := &fakeClient{name: types.SourceArxiv, err: fmt.Errorf("api down")}
	web := &fakeClient{name: types.SourceWeb, delay: 10 * time.Millisecond, papers: []types.Paper{
		paper(types.SourceWeb, "https://example.org/w1"),
	}}

	c := &Coordinator{Clients: clients(arxiv, web), Enricher: &fakeEnricher{}, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", Arxiv: true, Web: true}
	all := collect(t, c.Search(context.Background(), req))

	if done := sourceDone(t, all, types.SourceArxiv); done.Err == nil {
		t.Error("arXiv SourceDone.Err = nil, want error")
	}
	if done := sourceDone(t, all, types.SourceWeb); done.Found != 1 || done.Err != nil {
		t.Errorf("web SourceDone = %+v, want one paper and no error", done)
	}
}

func TestSearchZeroResultsStillCompletes(t *testing.T) {
	pubmed := &fakeClient{name: types.SourcePubMed}

	c := &Coordinator{Clients: clients(pubmed), Enricher: &fakeEnricher{}, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", PubMed: true}
	all := collect(t, c.Search(context.Background(), req))

	done := sourceDone(t, all, types.SourcePubMed)
	if done.Found != 0 || done.Err != nil {
		t.Errorf("SourceDone = %+v, want zero counts and no error", done)
	}
	if last := all[len(all)-1]; last.Kind != EventAllDone {
		t.Error("search with zero results did not signal overall completion")
	}
}

func TestSearchExcludesNonPapersButCountsThem(t *testing.T) {
	web := &fakeClient{name: types.SourceWeb, papers: []types.Paper{
		paper(types.SourceWeb, "https://example.org/paper"),
		paper(types.SourceWeb, "https://example.org/shop"),
		paper(types.SourceWeb, "https://example.org/broken"),
	}}
	enr := &fakeEnricher{
		nonPaper: map[string]bool{"https://example.org/shop": true},
		fail:     map[string]bool{"https://example.org/broken": true},
	}

	c := &Coordinator{Clients: clients(web), Enricher: enr, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", Web: true}
	all := collect(t, c.Search(context.Background(), req))

	var surfaced []string
	for _, ev := range all {
		if ev.Kind == EventPaperFound {
			surfaced = append(surfaced, ev.Paper.URL)
		}
	}
	if len(surfaced) != 2 {
		t.Errorf("surfaced papers = %v, want the non-paper excluded", surfaced)
	}
	for _, u := range surfaced {
		if u == "https://example.org/shop" {
			t.Error("non-paper result was surfaced")
		}
	}

	done := sourceDone(t, all, types.SourceWeb)
	if done.Found != 2 || done.Skipped != 1 || done.Failed != 1 {
		t.Errorf("counts = found %d skipped %d failed %d, want 2/1/1", done.Found, done.Skipped, done.Failed)
	}
}

func TestSearchPreservesWithinSourceOrder(t *testing.T) {
	web := &fakeClient{name: types.SourceWeb, papers: []types.Paper{
		paper(types.SourceWeb, "https://example.org/1"),
		paper(types.SourceWeb, "https://example.org/2"),
		paper(types.SourceWeb, "https://example.org/3"),
	}}

	c := &Coordinator{Clients: clients(web), Enricher: &fakeEnricher{}, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", Web: true}
	all := collect(t, c.Search(context.Background(), req))

	var urls []string
	for _, ev := range all {
		if ev.Kind == EventPaperFound {
			urls = append(urls, ev.Paper.URL)
		}
	}
	want := []string{"https://example.org/1", "https://example.org/2", "https://example.org/3"}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("urls = %v, want %v", urls, want)
		}
	}
}

func TestSearchHonorsPerSourceLimit(t *testing.T) {
	arxiv := &fakeClient{name: types.SourceArxiv, papers: []types.Paper{
		{Source: types.SourceArxiv, Title: "A1", Status: types.StatusComplete},
		{Source: types.SourceArxiv, Title: "A2", Status: types.StatusComplete},
		{Source: types.SourceArxiv, Title: "A3", Status: types.StatusComplete},
	}}

	c := &Coordinator{Clients: clients(arxiv), Enricher: &fakeEnricher{}, Log: zerolog.Nop()}

	req := types.SearchRequest{Query: "q", Arxiv: true, ArxivLimit: 2}
	all := collect(t, c.Search(context.Background(), req))

	if done := sourceDone(t, all, types.SourceArxiv); done.Found != 2 {
		t.Errorf("Found = %d, want limit of 2 applied", done.Found)
	}
}
