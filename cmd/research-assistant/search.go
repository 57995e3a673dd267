// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jordansp99/academic-research-assistant/internal/coordinator"
	"github.com/jordansp99/academic-research-assistant/internal/enrich"
	"github.com/jordansp99/academic-research-assistant/internal/httputil"
	"github.com/jordansp99/academic-research-assistant/internal/library"
	"github.com/jordansp99/academic-research-assistant/internal/sink"
	"github.com/jordansp99/academic-research-assistant/internal/source"
	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search academic sources for papers matching a query",
	Long: `Search fans the query out to the enabled sources in parallel. arXiv and
Semantic Scholar return complete records; PubMed and web results are
enriched with full metadata before they are reported. Results are
deduplicated by DOI (or URL when no DOI is known) and written to the
research digest as JSON.

A saved request file (--request-file) re-runs a previous search with the
same query and source settings.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if req.IsEmpty() {
		return fmt.Errorf("query required: pass it as an argument, --query, or --request-file")
	}
	if req.EnabledCount() == 0 {
		return fmt.Errorf("no sources enabled")
	}

	cfg := loadConfig()
	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		cfg.Search.Timeout = t
		cfg.Enrich.Timeout = t
	}

	log := newLogger()
	client := &http.Client{Timeout: durationOrDefault(cfg.Search.Timeout, types.DefaultConfig().Search.Timeout)}
	robots := httputil.NewRobotsCache(client)

	model := &enrich.GeminiModel{
		APIKey: cfg.Enrich.APIKey,
		Model:  cfg.Enrich.Model,
		Client: client,
	}
	enricher := enrich.New(client, robots, model, cfg.Enrich, log)

	coord := &coordinator.Coordinator{
		Clients: []source.Client{
			&source.ArxivClient{Client: client, Config: cfg.Search},
			&source.PubMedClient{Client: client, Config: cfg.Search},
			&source.SemanticScholarClient{Client: client, Config: cfg.Search, Log: log},
			&source.WebClient{Client: client, Config: cfg.Search},
		},
		Enricher: enricher,
		Log:      log,
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = cfg.Storage.OutputPath
	}
	digest := sink.NewDigest(outPath, log)

	summary := consumeEvents(coord.Search(context.Background(), req), digest)
	summary.DuplicatesRemoved = digest.Duplicates()

	papers := digest.Papers()
	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	printPaperTable(papers)

	if sel, _ := cmd.Flags().GetString("select"); sel != "" {
		papers, err = selectPapers(papers, sel)
		if err != nil {
			return err
		}
	}

	final := sink.NewDigest(outPath, log)
	for _, p := range papers {
		final.Add(p)
	}
	if err := final.Save(); err != nil {
		// A failed write never discards the search results.
		fmt.Fprintf(os.Stderr, "warning: could not save digest: %v\n", err)
	} else {
		fmt.Printf("\nSaved %d paper(s) to %s\n", len(papers), outPath)
	}

	store, err := library.NewStore(cfg.Storage.LibraryDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open library: %v\n", err)
	} else {
		defer store.Close()
		if _, err := store.Record(context.Background(), req.Query, papers); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record digest in library: %v\n", err)
		}
	}

	if savePath, _ := cmd.Flags().GetString("save-search"); savePath != "" {
		if err := coordinator.WriteRequestFile(savePath, req, papers, summary); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save search: %v\n", err)
		} else {
			fmt.Printf("Search saved to %s\n", savePath)
		}
	}

	return nil
}

// requestFromFlags builds the search request from a request file or the
// command line. Explicit flags win over request-file values.
func requestFromFlags(cmd *cobra.Command, args []string) (types.SearchRequest, error) {
	var req types.SearchRequest

	if path, _ := cmd.Flags().GetString("request-file"); path != "" {
		rf, err := coordinator.ReadRequestFile(path)
		if err != nil {
			return req, err
		}
		req = rf.Request
	} else {
		req.Arxiv, _ = cmd.Flags().GetBool("arxiv")
		req.PubMed, _ = cmd.Flags().GetBool("pubmed")
		req.SemanticScholar, _ = cmd.Flags().GetBool("semantic-scholar")
		req.Web, _ = cmd.Flags().GetBool("web")
	}

	if q, _ := cmd.Flags().GetString("query"); q != "" {
		req.Query = q
	} else if len(args) > 0 {
		req.Query = strings.Join(args, " ")
	}

	if n, _ := cmd.Flags().GetInt("arxiv-limit"); n > 0 {
		req.ArxivLimit = n
	}
	if n, _ := cmd.Flags().GetInt("pubmed-limit"); n > 0 {
		req.PubMedLimit = n
	}
	if n, _ := cmd.Flags().GetInt("semantic-scholar-limit"); n > 0 {
		req.SemanticScholarLimit = n
	}
	if n, _ := cmd.Flags().GetInt("web-limit"); n > 0 {
		req.WebLimit = n
	}

	req.Normalize()
	return req, nil
}

// consumeEvents drains the coordinator's event stream, feeding found
// papers into the digest and reporting per-source progress.
func consumeEvents(events <-chan coordinator.Event, digest *sink.Digest) coordinator.RequestSummary {
	var summary coordinator.RequestSummary

	for ev := range events {
		switch ev.Kind {
		case coordinator.EventPaperFound:
			if digest.Add(ev.Paper) {
				fmt.Printf("[%s] %s\n", ev.Paper.Source, ev.Paper.Title)
			}
		case coordinator.EventSourceDone:
			if ev.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: search failed: %v\n", ev.Source, ev.Err)
				summary.SourceErrors = append(summary.SourceErrors, fmt.Sprintf("%s: %v", ev.Source, ev.Err))
				continue
			}
			fmt.Printf("%s: done (%d found, %d skipped, %d failed)\n", ev.Source, ev.Found, ev.Skipped, ev.Failed)
			summary.NonPapersSkipped += ev.Skipped
		case coordinator.EventAllDone:
			fmt.Println("All sources finished.")
		}
	}
	return summary
}

// printPaperTable renders the collected papers as a numbered table.
func printPaperTable(papers []types.Paper) {
	fmt.Printf("\n%-4s  %-16s  %-50s  %-6s  %s\n", "#", "Source", "Title", "Year", "DOI")
	fmt.Println(strings.Repeat("-", 100))

	for i, p := range papers {
		fmt.Printf("%-4d  %-16s  %-50s  %-6s  %s\n", i+1, p.Source, truncate(p.Title, 50), p.Year, p.DOI)
	}

	fmt.Printf("\n%d unique paper(s)\n", len(papers))
}

// truncate shortens s to at most max runes, marking the cut with an
// ellipsis. Slicing runes rather than bytes keeps multi-byte titles intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// selectPapers filters papers by a 1-based selection like "1,3-5".
func selectPapers(papers []types.Paper, spec string) ([]types.Paper, error) {
	keep := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err1 := strconv.Atoi(strings.TrimSpace(lo))
			end, err2 := strconv.Atoi(strings.TrimSpace(hi))
			if err1 != nil || err2 != nil || start < 1 || end < start {
				return nil, fmt.Errorf("invalid selection range %q", part)
			}
			for i := start; i <= end; i++ {
				keep[i] = true
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		keep[n] = true
	}

	var out []types.Paper
	for i, p := range papers {
		if keep[i+1] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("selection %q matches no papers", spec)
	}
	return out, nil
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query")
	searchCmd.Flags().String("request-file", "", "load query and source settings from a saved search YAML file")

	searchCmd.Flags().Bool("arxiv", true, "search arXiv")
	searchCmd.Flags().Bool("pubmed", true, "search PubMed")
	searchCmd.Flags().Bool("semantic-scholar", true, "search Semantic Scholar")
	searchCmd.Flags().Bool("web", true, "search the general web")

	searchCmd.Flags().Int("arxiv-limit", 0, "maximum arXiv results (0 = default)")
	searchCmd.Flags().Int("pubmed-limit", 0, "maximum PubMed results (0 = default)")
	searchCmd.Flags().Int("semantic-scholar-limit", 0, "maximum Semantic Scholar results (0 = default)")
	searchCmd.Flags().Int("web-limit", 0, "maximum web results (0 = default)")

	searchCmd.Flags().String("out", "", "digest output path (default from config)")
	searchCmd.Flags().String("select", "", "papers to save, e.g. \"1,3-5\" (default all)")
	searchCmd.Flags().String("save-search", "", "save the request and results to a YAML file")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout override")

	rootCmd.AddCommand(searchCmd)
}
