// Package qdrant is a segment index backed by a Qdrant vector store over
// its REST API. Segments are points in one collection; queries, counts and
// deletes are restricted to a session through a payload filter.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"pdfchat/internal/index"
	"pdfchat/internal/model"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

type Index struct {
	cfg      Config
	embedder index.Embedder
	client   *http.Client
}

func New(cfg Config, embedder index.Embedder) *Index {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		cfg:      cfg,
		embedder: embedder,
		client:   &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if it does not exist. Qdrant
// answers 200 for an existing collection with the same schema.
func (i *Index) EnsureCollection(ctx context.Context, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return i.putJSON(ctx, fmt.Sprintf("%s/collections/%s", i.cfg.URL, i.cfg.Collection), body)
}

func (i *Index) Upsert(ctx context.Context, segments []model.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	texts := make([]string, len(segments))
	for n, seg := range segments {
		texts[n] = seg.Text
	}
	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed segments failed: %w", err)
	}
	if len(vectors) != len(segments) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d segments", len(vectors), len(segments))
	}

	points := make([]map[string]any, len(segments))
	for n, seg := range segments {
		points[n] = map[string]any{
			"id":     uuid.NewString(),
			"vector": vectors[n],
			"payload": map[string]any{
				"session_id":  seg.SessionID,
				"document_id": seg.DocumentID,
				"filename":    seg.Filename,
				"position":    seg.Position,
				"text":        seg.Text,
			},
		}
	}
	body := map[string]any{"points": points}
	return i.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", i.cfg.URL, i.cfg.Collection), body)
}

func (i *Index) Query(ctx context.Context, sessionID, query string, topK int) ([]model.Segment, error) {
	count, err := i.Count(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, index.ErrNoSegments
	}

	queryVec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	if topK <= 0 {
		topK = 1
	}
	req := map[string]any{
		"vector":       queryVec,
		"limit":        topK,
		"with_payload": true,
		"filter":       sessionFilter(sessionID),
	}
	var resp struct {
		Result []struct {
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := i.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", i.cfg.URL, i.cfg.Collection), req, &resp); err != nil {
		return nil, err
	}

	segments := make([]model.Segment, 0, len(resp.Result))
	for _, r := range resp.Result {
		seg := model.Segment{SessionID: sessionID}
		if v, ok := r.Payload["document_id"].(string); ok {
			seg.DocumentID = v
		}
		if v, ok := r.Payload["filename"].(string); ok {
			seg.Filename = v
		}
		if v, ok := r.Payload["position"].(float64); ok {
			seg.Position = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			seg.Text = v
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (i *Index) Count(ctx context.Context, sessionID string) (int, error) {
	req := map[string]any{
		"filter": sessionFilter(sessionID),
		"exact":  true,
	}
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := i.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/count", i.cfg.URL, i.cfg.Collection), req, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (i *Index) DeleteSession(ctx context.Context, sessionID string) error {
	req := map[string]any{"filter": sessionFilter(sessionID)}
	return i.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", i.cfg.URL, i.cfg.Collection), req, nil)
}

func (i *Index) DeleteDocument(ctx context.Context, sessionID, documentID string) error {
	req := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "session_id", "match": map[string]any{"value": sessionID}},
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	return i.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", i.cfg.URL, i.cfg.Collection), req, nil)
}

func sessionFilter(sessionID string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": "session_id", "match": map[string]any{"value": sessionID}},
		},
	}
}

func (i *Index) putJSON(ctx context.Context, url string, body any) error {
	return i.do(ctx, http.MethodPut, url, body, nil)
}

func (i *Index) postJSON(ctx context.Context, url string, body any, out any) error {
	return i.do(ctx, http.MethodPost, url, body, out)
}

func (i *Index) do(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal qdrant request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build qdrant request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if i.cfg.APIKey != "" {
		req.Header.Set("api-key", i.cfg.APIKey)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode qdrant response failed: %w", err)
		}
	}
	return nil
}
