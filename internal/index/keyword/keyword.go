// Package keyword is the zero-dependency segment index: relevance is the
// number of distinct query words found in a segment's text.
package keyword

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pdfchat/internal/index"
	"pdfchat/internal/model"
)

// Index keeps segments in memory per session and ranks them by keyword
// overlap with the query.
type Index struct {
	mu       sync.RWMutex
	segments map[string][]model.Segment // session id -> segments in ingestion order
}

func New() *Index {
	return &Index{segments: make(map[string][]model.Segment)}
}

func (i *Index) Upsert(_ context.Context, segments []model.Segment) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, seg := range segments {
		i.segments[seg.SessionID] = append(i.segments[seg.SessionID], seg)
	}
	return nil
}

// Query scores each stored segment by how many distinct lowercase query
// words occur as substrings of its lowercase text, orders by score
// descending (ties keep ingestion order) and returns the first topK with a
// positive score. When no segment scores, it falls back to the first topK
// segments in ingestion order so the caller always gets context.
func (i *Index) Query(_ context.Context, sessionID, query string, topK int) ([]model.Segment, error) {
	i.mu.RLock()
	stored := i.segments[sessionID]
	segs := make([]model.Segment, len(stored))
	copy(segs, stored)
	i.mu.RUnlock()

	if len(segs) == 0 {
		return nil, index.ErrNoSegments
	}
	if topK <= 0 {
		topK = 1
	}

	words := queryWords(query)
	type scored struct {
		seg   model.Segment
		score int
	}
	matched := make([]scored, 0, len(segs))
	for _, seg := range segs {
		text := strings.ToLower(seg.Text)
		count := 0
		for w := range words {
			if strings.Contains(text, w) {
				count++
			}
		}
		if count > 0 {
			matched = append(matched, scored{seg: seg, score: count})
		}
	}

	if len(matched) == 0 {
		if topK > len(segs) {
			topK = len(segs)
		}
		return segs[:topK], nil
	}

	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].score > matched[b].score
	})
	if topK > len(matched) {
		topK = len(matched)
	}
	out := make([]model.Segment, topK)
	for n := 0; n < topK; n++ {
		out[n] = matched[n].seg
	}
	return out, nil
}

func (i *Index) Count(_ context.Context, sessionID string) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.segments[sessionID]), nil
}

func (i *Index) DeleteSession(_ context.Context, sessionID string) error {
	i.mu.Lock()
	delete(i.segments, sessionID)
	i.mu.Unlock()
	return nil
}

func (i *Index) DeleteDocument(_ context.Context, sessionID, documentID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	stored := i.segments[sessionID]
	kept := stored[:0]
	for _, seg := range stored {
		if seg.DocumentID != documentID {
			kept = append(kept, seg)
		}
	}
	i.segments[sessionID] = kept
	return nil
}

func queryWords(query string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = struct{}{}
	}
	return words
}
