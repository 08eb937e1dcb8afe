package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pdfchat/internal/ai"
	"pdfchat/internal/index"
	"pdfchat/internal/model"
	"pdfchat/internal/store"
)

const (
	systemInstruction = "You are a helpful assistant. Answer the user's question using only the supplied document context. If the context does not contain the answer, say that the uploaded documents do not cover it. Do not make up facts."

	// sourcePreviewLen bounds the per-source content preview in answers.
	sourcePreviewLen = 200

	DefaultTopK          = 4
	DefaultHistoryWindow = 6
)

// Completer generates an answer from an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// ChatEvent describes one answered question, published after the ledger is
// updated.
type ChatEvent struct {
	SessionID   string    `json:"session_id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	SourceCount int       `json:"source_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatEventPublisher forwards chat events to interested consumers.
// Publishing is best-effort; failures never affect the answer.
type ChatEventPublisher interface {
	Publish(ctx context.Context, ev ChatEvent) error
}

// Source points an answer back at a contributing segment.
type Source struct {
	Content    string `json:"content"`
	Filename   string `json:"filename"`
	DocumentID string `json:"document_id"`
}

type AskInput struct {
	SessionID string
	Question  string
	// History optionally overrides the session ledger as prior-turn
	// context. Roles must be user or assistant.
	History []model.ChatMessage
	TopK    int
}

type AskResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// AnswerService drives retrieval, prompt construction, generation and the
// ledger update for one question.
type AnswerService struct {
	sessions      *store.SessionStore
	idx           index.Index
	llm           Completer
	publisher     ChatEventPublisher // nil when events are disabled
	topK          int
	historyWindow int
	autoCreate    bool
}

func NewAnswerService(
	sessions *store.SessionStore,
	idx index.Index,
	llm Completer,
	publisher ChatEventPublisher,
	topK, historyWindow int,
	autoCreate bool,
) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &AnswerService{
		sessions:      sessions,
		idx:           idx,
		llm:           llm,
		publisher:     publisher,
		topK:          topK,
		historyWindow: historyWindow,
		autoCreate:    autoCreate,
	}
}

// Ask answers the question from the session's indexed segments. The session
// must have at least one segment; the model is never called without
// context. On success the question and answer are appended to the ledger as
// two messages, in that order.
func (s *AnswerService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrInvalidInput
	}
	for _, m := range input.History {
		if !m.Role.Valid() {
			return nil, ErrInvalidInput
		}
	}

	sess, err := resolveSession(s.sessions, input.SessionID, s.autoCreate)
	if err != nil {
		return nil, err
	}

	count, err := s.idx.Count(ctx, sess.ID)
	if err != nil {
		return nil, collaboratorErr("count segments", err)
	}
	if count == 0 {
		return nil, ErrNoDocuments
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.topK
	}
	segments, err := s.idx.Query(ctx, sess.ID, question, topK)
	if err != nil {
		if errors.Is(err, index.ErrNoSegments) {
			return nil, ErrNoDocuments
		}
		return nil, collaboratorErr("retrieve segments", err)
	}

	history := input.History
	if len(history) == 0 {
		history = sess.Messages
	}
	messages := buildPrompt(question, history, segments, s.historyWindow)

	answer, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return nil, collaboratorErr("generate answer", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "The model returned an empty response."
	}

	now := time.Now()
	ok := s.sessions.AppendMessages(sess.ID,
		model.ChatMessage{Role: model.RoleUser, Content: question, CreatedAt: now},
		model.ChatMessage{Role: model.RoleAssistant, Content: answer, CreatedAt: now},
	)
	if !ok {
		return nil, ErrSessionNotFound
	}

	sources := make([]Source, len(segments))
	for i, seg := range segments {
		sources[i] = Source{
			Content:    preview(seg.Text, sourcePreviewLen),
			Filename:   seg.Filename,
			DocumentID: seg.DocumentID,
		}
	}

	if s.publisher != nil {
		ev := ChatEvent{
			SessionID:   sess.ID,
			Question:    question,
			Answer:      answer,
			SourceCount: len(sources),
			CreatedAt:   now,
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Printf("publish chat event failed: %v", err)
		}
	}

	return &AskResult{Answer: answer, Sources: sources}, nil
}

// buildPrompt assembles the bounded prompt: the fixed system instruction,
// the most recent window of history turns (oldest dropped first), and the
// retrieved segments each tagged with filename and position, followed by
// the verbatim question.
func buildPrompt(question string, history []model.ChatMessage, segments []model.Segment, window int) []ai.ChatMessage {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}

	var ctxBlock strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&ctxBlock, "\n---\n[%s #%d]\n%s", seg.Filename, seg.Position, seg.Text)
	}
	ctxBlock.WriteString("\n---")

	messages := make([]ai.ChatMessage, 0, len(history)+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: systemInstruction})
	for _, m := range history {
		messages = append(messages, ai.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, ai.ChatMessage{
		Role:    "user",
		Content: "Context:" + ctxBlock.String() + "\n\nQuestion: " + question + "\n\nAnswer:",
	})
	return messages
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
