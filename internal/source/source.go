// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source implements the bibliographic source clients. Each client
// queries one backend and normalizes its results into the common Paper
// record. Clients that can only produce URLs (PubMed, Web) return stub
// papers for the enricher to complete.
package source

import (
	"context"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

// Client searches a single bibliographic backend. Implementations must
// return an empty slice together with the error on failure; the coordinator
// isolates the failure to that source.
type Client interface {
	Name() types.Source
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
}
