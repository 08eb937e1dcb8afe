package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/index"
	"pdfchat/internal/index/keyword"
	"pdfchat/internal/model"
	"pdfchat/internal/store"
)

func fixedExtractor(text string) ExtractorFunc {
	return func(io.Reader) (string, error) { return text, nil }
}

func failingExtractor(err error) ExtractorFunc {
	return func(io.Reader) (string, error) { return "", err }
}

// brokenIndex fails every upsert while delegating the rest.
type brokenIndex struct {
	index.Index
}

func (b *brokenIndex) Upsert(context.Context, []model.Segment) error {
	return errors.New("index unavailable")
}

func TestIngestHappyPath(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewSessionStore()
	idx := keyword.New()
	sess := sessions.Create()

	text := strings.Repeat("annual report contents with findings ", 60)
	svc := NewIngestService(sessions, idx, fixedExtractor(text), 200, 0, false)

	doc, err := svc.Ingest(ctx, sess.ID, "report.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "report.pdf", doc.Filename)
	assert.Greater(t, doc.SegmentCount, 1)

	got, ok := sessions.Get(sess.ID)
	require.True(t, ok)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, doc.ID, got.Documents[0].ID)

	n, err := idx.Count(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.SegmentCount, n)

	segs, err := idx.Query(ctx, sess.ID, "findings", 2)
	require.NoError(t, err)
	require.NotEmpty(t, segs)
	assert.Equal(t, doc.ID, segs[0].DocumentID)
	assert.Equal(t, "report.pdf", segs[0].Filename)
}

func TestIngestIndexFailureRecordsNoDocument(t *testing.T) {
	sessions := store.NewSessionStore()
	sess := sessions.Create()
	svc := NewIngestService(sessions, &brokenIndex{Index: keyword.New()}, fixedExtractor("some text"), 100, 0, false)

	_, err := svc.Ingest(context.Background(), sess.ID, "a.pdf", strings.NewReader("%PDF"))

	var collab *CollaboratorError
	require.ErrorAs(t, err, &collab)
	got, _ := sessions.Get(sess.ID)
	assert.Empty(t, got.Documents)
}

func TestIngestExtractionFailure(t *testing.T) {
	sessions := store.NewSessionStore()
	sess := sessions.Create()
	svc := NewIngestService(sessions, keyword.New(), failingExtractor(errors.New("bad pdf")), 100, 0, false)

	_, err := svc.Ingest(context.Background(), sess.ID, "a.pdf", strings.NewReader("junk"))

	var collab *CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Contains(t, collab.Error(), "bad pdf")
	got, _ := sessions.Get(sess.ID)
	assert.Empty(t, got.Documents)
}

func TestIngestRejectsEmptyExtractedText(t *testing.T) {
	sessions := store.NewSessionStore()
	sess := sessions.Create()
	svc := NewIngestService(sessions, keyword.New(), fixedExtractor("   \n "), 100, 0, false)

	_, err := svc.Ingest(context.Background(), sess.ID, "a.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIngestUnknownSessionPolicy(t *testing.T) {
	sessions := store.NewSessionStore()

	strict := NewIngestService(sessions, keyword.New(), fixedExtractor("text body"), 100, 0, false)
	_, err := strict.Ingest(context.Background(), "ghost", "a.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	lax := NewIngestService(sessions, keyword.New(), fixedExtractor("text body"), 100, 0, true)
	doc, err := lax.Ingest(context.Background(), "ghost", "a.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "ghost", doc.SessionID)
	_, ok := sessions.Get("ghost")
	assert.True(t, ok)
}

func TestIngestCancelledBeforeIndexing(t *testing.T) {
	sessions := store.NewSessionStore()
	sess := sessions.Create()
	idx := keyword.New()
	svc := NewIngestService(sessions, idx, fixedExtractor("text body"), 100, 0, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Ingest(ctx, sess.ID, "a.pdf", strings.NewReader("%PDF"))
	require.Error(t, err)

	got, _ := sessions.Get(sess.ID)
	assert.Empty(t, got.Documents)
	n, _ := idx.Count(context.Background(), sess.ID)
	assert.Zero(t, n)
}

func TestIngestBlankFilename(t *testing.T) {
	sessions := store.NewSessionStore()
	svc := NewIngestService(sessions, keyword.New(), fixedExtractor("text"), 100, 0, false)

	_, err := svc.Ingest(context.Background(), sessions.Create().ID, "   ", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
