package app

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfchat/internal/chunker"
	"pdfchat/internal/index"
	"pdfchat/internal/model"
	"pdfchat/internal/store"
)

// TextExtractor turns raw document bytes into plain text, page texts
// concatenated in page order.
type TextExtractor interface {
	ExtractText(r io.Reader) (string, error)
}

// ExtractorFunc adapts a plain function to TextExtractor.
type ExtractorFunc func(r io.Reader) (string, error)

func (f ExtractorFunc) ExtractText(r io.Reader) (string, error) {
	return f(r)
}

// IngestService drives the upload pipeline: extract, chunk, index, record.
type IngestService struct {
	sessions     *store.SessionStore
	idx          index.Index
	extractor    TextExtractor
	chunkSize    int
	chunkOverlap int
	autoCreate   bool
}

func NewIngestService(
	sessions *store.SessionStore,
	idx index.Index,
	extractor TextExtractor,
	chunkSize, chunkOverlap int,
	autoCreate bool,
) *IngestService {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = chunker.DefaultOverlap
	}
	return &IngestService{
		sessions:     sessions,
		idx:          idx,
		extractor:    extractor,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		autoCreate:   autoCreate,
	}
}

// Ingest extracts text from r, chunks it, indexes every segment and only
// then appends the document record to the session. A failure or
// cancellation at any earlier step records no document, so a document is
// never visible without its segments.
func (s *IngestService) Ingest(ctx context.Context, sessionID, filename string, r io.Reader) (model.Document, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return model.Document{}, ErrInvalidInput
	}
	sess, err := resolveSession(s.sessions, sessionID, s.autoCreate)
	if err != nil {
		return model.Document{}, err
	}

	text, err := s.extractor.ExtractText(r)
	if err != nil {
		return model.Document{}, collaboratorErr("extract document text", err)
	}
	if strings.TrimSpace(text) == "" {
		return model.Document{}, ErrInvalidInput
	}

	chunks := chunker.Split(text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return model.Document{}, ErrInvalidInput
	}

	doc := model.Document{
		ID:           uuid.NewString(),
		SessionID:    sess.ID,
		Filename:     filename,
		SegmentCount: len(chunks),
		CreatedAt:    time.Now(),
	}
	segments := make([]model.Segment, len(chunks))
	for i, c := range chunks {
		segments[i] = model.Segment{
			DocumentID: doc.ID,
			SessionID:  sess.ID,
			Filename:   filename,
			Position:   i,
			Text:       c,
		}
	}

	if err := ctx.Err(); err != nil {
		return model.Document{}, collaboratorErr("index segments", err)
	}
	if err := s.idx.Upsert(ctx, segments); err != nil {
		return model.Document{}, collaboratorErr("index segments", err)
	}

	if !s.sessions.AppendDocument(sess.ID, doc) {
		// session deleted while indexing
		return model.Document{}, ErrSessionNotFound
	}
	return doc, nil
}
