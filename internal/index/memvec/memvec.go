// Package memvec is a process-local vector index: brute-force cosine
// similarity over embeddings held in memory.
package memvec

import (
	"context"
	"fmt"
	"sync"

	"pdfchat/internal/index"
	"pdfchat/internal/model"
)

// embeddingBatchSize limits batch calls; many providers cap array input.
const embeddingBatchSize = 10

type record struct {
	seg model.Segment
	vec []float32
}

type Index struct {
	embedder index.Embedder

	mu      sync.RWMutex
	records map[string][]record // session id -> records in ingestion order
}

func New(embedder index.Embedder) *Index {
	return &Index{
		embedder: embedder,
		records:  make(map[string][]record),
	}
}

// Upsert embeds segment texts in batches and stores them alongside the
// segments. Nothing is stored unless every batch embeds successfully.
func (i *Index) Upsert(ctx context.Context, segments []model.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	texts := make([]string, len(segments))
	for n, seg := range segments {
		texts[n] = seg.Text
	}

	var vectors [][]float32
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := i.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return fmt.Errorf("embed segments failed: %w", err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(segments) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d segments", len(vectors), len(segments))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for n, seg := range segments {
		i.records[seg.SessionID] = append(i.records[seg.SessionID], record{seg: seg, vec: vectors[n]})
	}
	return nil
}

func (i *Index) Query(ctx context.Context, sessionID, query string, topK int) ([]model.Segment, error) {
	i.mu.RLock()
	stored := i.records[sessionID]
	records := make([]record, len(stored))
	copy(records, stored)
	i.mu.RUnlock()

	if len(records) == 0 {
		return nil, index.ErrNoSegments
	}

	queryVec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	scored := make([]index.ScoredSegment, len(records))
	for n, r := range records {
		scored[n] = index.ScoredSegment{
			Segment: r.seg,
			Score:   index.CosineSimilarity(queryVec, r.vec),
		}
	}
	return index.TopK(scored, topK), nil
}

func (i *Index) Count(_ context.Context, sessionID string) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records[sessionID]), nil
}

func (i *Index) DeleteSession(_ context.Context, sessionID string) error {
	i.mu.Lock()
	delete(i.records, sessionID)
	i.mu.Unlock()
	return nil
}

func (i *Index) DeleteDocument(_ context.Context, sessionID, documentID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	stored := i.records[sessionID]
	kept := stored[:0]
	for _, r := range stored {
		if r.seg.DocumentID != documentID {
			kept = append(kept, r)
		}
	}
	i.records[sessionID] = kept
	return nil
}
