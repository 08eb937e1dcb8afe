// Package index defines the segment index consumed by the ingestion and
// answering workflows. Backends are interchangeable: a local keyword
// scorer, a local vector index, and Redis- or Qdrant-backed vector stores,
// all scoped to a session namespace.
package index

import (
	"context"
	"errors"

	"pdfchat/internal/model"
)

// ErrNoSegments is returned by Query when the session has nothing indexed.
var ErrNoSegments = errors.New("no segments indexed for session")

// Index stores segments and retrieves the most relevant ones for a query
// within one session's scope.
type Index interface {
	// Upsert adds segments to the index. Segments carry their own session
	// and document identifiers.
	Upsert(ctx context.Context, segments []model.Segment) error
	// Query returns up to topK segments relevant to the query, restricted
	// to the given session. Returns ErrNoSegments when the session scope is
	// empty; never returns an empty result while segments exist.
	Query(ctx context.Context, sessionID, query string, topK int) ([]model.Segment, error)
	// Count reports how many segments the session has indexed.
	Count(ctx context.Context, sessionID string) (int, error)
	// DeleteSession drops every segment in the session's scope.
	DeleteSession(ctx context.Context, sessionID string) error
	// DeleteDocument drops the segments of one document within the session.
	DeleteDocument(ctx context.Context, sessionID, documentID string) error
}

// Embedder turns text into fixed-dimension vectors. The same embedder must
// be used for indexing and querying.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
