// Package redisvec keeps segments and their embeddings in Redis, one hash
// per session, and ranks by cosine similarity on the client side.
package redisvec

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	redisv9 "github.com/redis/go-redis/v9"

	"pdfchat/internal/index"
	"pdfchat/internal/model"
)

type payload struct {
	Segment model.Segment `json:"segment"`
	Vector  []float32     `json:"vector"`
}

type Index struct {
	client   *redisv9.Client
	embedder index.Embedder
}

func New(client *redisv9.Client, embedder index.Embedder) *Index {
	return &Index{client: client, embedder: embedder}
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

	pipe := i.client.Pipeline()
	for n, seg := range segments {
		raw, err := json.Marshal(payload{Segment: seg, Vector: vectors[n]})
		if err != nil {
			return fmt.Errorf("marshal segment payload failed: %w", err)
		}
		pipe.HSet(ctx, sessionKey(seg.SessionID), fieldKey(seg), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis upsert segments failed: %w", err)
	}
	return nil
}

func (i *Index) Query(ctx context.Context, sessionID, query string, topK int) ([]model.Segment, error) {
	entries, err := i.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load segments failed: %w", err)
	}
	if len(entries) == 0 {
		return nil, index.ErrNoSegments
	}

	queryVec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	scored := make([]index.ScoredSegment, 0, len(entries))
	for _, raw := range entries {
		var p payload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshal segment payload failed: %w", err)
		}
		scored = append(scored, index.ScoredSegment{
			Segment: p.Segment,
			Score:   index.CosineSimilarity(queryVec, p.Vector),
		})
	}
	return index.TopK(scored, topK), nil
}

func (i *Index) Count(ctx context.Context, sessionID string) (int, error) {
	n, err := i.client.HLen(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count segments failed: %w", err)
	}
	return int(n), nil
}

func (i *Index) DeleteSession(ctx context.Context, sessionID string) error {
	if err := i.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session segments failed: %w", err)
	}
	return nil
}

func (i *Index) DeleteDocument(ctx context.Context, sessionID, documentID string) error {
	key := sessionKey(sessionID)
	fields, err := i.client.HKeys(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis list segment fields failed: %w", err)
	}
	var doomed []string
	for _, f := range fields {
		if strings.HasPrefix(f, documentID+":") {
			doomed = append(doomed, f)
		}
	}
	if len(doomed) == 0 {
		return nil
	}
	if err := i.client.HDel(ctx, key, doomed...).Err(); err != nil {
		return fmt.Errorf("redis delete document segments failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "chat:index:" + sessionID
}

func fieldKey(seg model.Segment) string {
	return fmt.Sprintf("%s:%d", seg.DocumentID, seg.Position)
}
