package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/index/keyword"
	"pdfchat/internal/model"
	"pdfchat/internal/store"
)

func TestDeleteDocumentLeavesSegmentsByDefault(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewSessionStore()
	idx := keyword.New()
	sess := sessions.Create()

	sessions.AppendDocument(sess.ID, model.Document{ID: "d1", SessionID: sess.ID, Filename: "a.pdf"})
	require.NoError(t, idx.Upsert(ctx, []model.Segment{
		{DocumentID: "d1", SessionID: sess.ID, Filename: "a.pdf", Position: 0, Text: "orphaned content"},
	}))

	svc := NewSessionService(sessions, idx, false, false)
	require.NoError(t, svc.DeleteDocument(ctx, sess.ID, "d1"))

	got, _ := sessions.Get(sess.ID)
	assert.Empty(t, got.Documents)

	// the index was deliberately not told; segments stay retrievable
	segs, err := idx.Query(ctx, sess.ID, "orphaned", 3)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "d1", segs[0].DocumentID)
}

func TestDeleteDocumentCascades(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewSessionStore()
	idx := keyword.New()
	sess := sessions.Create()

	sessions.AppendDocument(sess.ID, model.Document{ID: "d1", SessionID: sess.ID})
	require.NoError(t, idx.Upsert(ctx, []model.Segment{
		{DocumentID: "d1", SessionID: sess.ID, Position: 0, Text: "content"},
	}))

	svc := NewSessionService(sessions, idx, false, true)
	require.NoError(t, svc.DeleteDocument(ctx, sess.ID, "d1"))

	n, err := idx.Count(ctx, sess.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteDocumentErrors(t *testing.T) {
	sessions := store.NewSessionStore()
	svc := NewSessionService(sessions, keyword.New(), false, false)

	err := svc.DeleteDocument(context.Background(), "ghost", "d1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := sessions.Create()
	err = svc.DeleteDocument(context.Background(), sess.ID, "d1")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDeleteSessionAlwaysDropsSegments(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewSessionStore()
	idx := keyword.New()
	sess := sessions.Create()
	require.NoError(t, idx.Upsert(ctx, []model.Segment{
		{DocumentID: "d1", SessionID: sess.ID, Position: 0, Text: "content"},
	}))

	svc := NewSessionService(sessions, idx, false, false)
	require.NoError(t, svc.DeleteSession(ctx, sess.ID))

	_, ok := sessions.Get(sess.ID)
	assert.False(t, ok)
	n, err := idx.Count(ctx, sess.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, svc.DeleteSession(ctx, sess.ID), ErrSessionNotFound)
}

func TestHistoryUnknownSession(t *testing.T) {
	svc := NewSessionService(store.NewSessionStore(), keyword.New(), false, false)
	_, err := svc.History("ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
