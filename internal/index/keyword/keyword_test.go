package keyword

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/index"
	"pdfchat/internal/model"
)

func seedSegments(t *testing.T, idx *Index, sessionID string, texts ...string) []model.Segment {
	t.Helper()
	segs := make([]model.Segment, len(texts))
	for i, text := range texts {
		segs[i] = model.Segment{
			DocumentID: "doc-1",
			SessionID:  sessionID,
			Filename:   "report.pdf",
			Position:   i,
			Text:       text,
		}
	}
	require.NoError(t, idx.Upsert(context.Background(), segs))
	return segs
}

func TestQueryEmptySession(t *testing.T) {
	idx := New()
	_, err := idx.Query(context.Background(), "nope", "anything", 3)
	assert.ErrorIs(t, err, index.ErrNoSegments)
}

func TestQueryRanksByDistinctWordMatches(t *testing.T) {
	idx := New()
	seedSegments(t, idx, "s1",
		"the quarterly revenue grew",          // revenue
		"revenue and profit and margin notes", // revenue profit margin
		"profit margin outlook",               // profit margin
		"unrelated appendix",
	)

	got, err := idx.Query(context.Background(), "s1", "revenue profit margin", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Position) // 3 matches
	assert.Equal(t, 2, got[1].Position) // 2 matches
	assert.Equal(t, 0, got[2].Position) // 1 match
}

func TestQueryTiesKeepIngestionOrder(t *testing.T) {
	idx := New()
	seedSegments(t, idx, "s1",
		"alpha here",
		"alpha there",
		"alpha everywhere",
	)

	got, err := idx.Query(context.Background(), "s1", "alpha", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, seg := range got {
		assert.Equal(t, i, seg.Position)
	}
}

func TestQueryCaseInsensitiveSubstringMatch(t *testing.T) {
	idx := New()
	seedSegments(t, idx, "s1", "The Widget Catalogue describes widgets")

	got, err := idx.Query(context.Background(), "s1", "WIDGET", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestQueryFallsBackToIngestionOrder(t *testing.T) {
	idx := New()
	segs := make([]string, 5)
	for i := range segs {
		segs[i] = fmt.Sprintf("segment number %d body text", i)
	}
	seedSegments(t, idx, "s1", segs...)

	got, err := idx.Query(context.Background(), "s1", "zzz qqq xxx", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, seg := range got {
		assert.Equal(t, i, seg.Position)
	}
}

func TestQueryLimitsToTopK(t *testing.T) {
	idx := New()
	seedSegments(t, idx, "s1",
		"match one", "match two", "match three", "match four",
	)

	got, err := idx.Query(context.Background(), "s1", "match", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSessionScoping(t *testing.T) {
	idx := New()
	seedSegments(t, idx, "s1", "banana facts")
	seedSegments(t, idx, "s2", "banana rumors")

	got, err := idx.Query(context.Background(), "s1", "banana", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SessionID)
}

func TestDeleteDocumentAndSession(t *testing.T) {
	ctx := context.Background()
	idx := New()
	segs := []model.Segment{
		{DocumentID: "d1", SessionID: "s1", Position: 0, Text: "keep me"},
		{DocumentID: "d2", SessionID: "s1", Position: 0, Text: "drop me"},
	}
	require.NoError(t, idx.Upsert(ctx, segs))

	require.NoError(t, idx.DeleteDocument(ctx, "s1", "d2"))
	n, err := idx.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, idx.DeleteSession(ctx, "s1"))
	n, err = idx.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
