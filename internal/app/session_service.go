package app

import (
	"context"
	"strings"

	"pdfchat/internal/index"
	"pdfchat/internal/model"
	"pdfchat/internal/store"
)

// SessionService manages the session lifecycle and both delete paths.
type SessionService struct {
	sessions      *store.SessionStore
	idx           index.Index
	autoCreate    bool
	cascadeDelete bool
}

func NewSessionService(sessions *store.SessionStore, idx index.Index, autoCreate, cascadeDelete bool) *SessionService {
	return &SessionService{
		sessions:      sessions,
		idx:           idx,
		autoCreate:    autoCreate,
		cascadeDelete: cascadeDelete,
	}
}

// Create registers a fresh session and returns it.
func (s *SessionService) Create() model.Session {
	return s.sessions.Create()
}

// History returns a snapshot of the session's chat ledger and documents in
// chronological order.
func (s *SessionService) History(sessionID string) (model.Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// DeleteSession removes the session and always drops its indexed segments;
// nothing owned by a session outlives it.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return ErrSessionNotFound
	}
	if err := s.idx.DeleteSession(ctx, sessionID); err != nil {
		return collaboratorErr("delete session segments", err)
	}
	return nil
}

// DeleteDocument removes the document record. Its segments stay in the
// index unless cascade delete is configured, matching the observed behavior
// of the variants this was built from.
func (s *SessionService) DeleteDocument(ctx context.Context, sessionID, documentID string) error {
	_, sessionOK, docOK := s.sessions.RemoveDocument(sessionID, documentID)
	if !sessionOK {
		return ErrSessionNotFound
	}
	if !docOK {
		return ErrDocumentNotFound
	}
	if s.cascadeDelete {
		if err := s.idx.DeleteDocument(ctx, sessionID, documentID); err != nil {
			return collaboratorErr("delete document segments", err)
		}
	}
	return nil
}

// resolveSession applies the configured not-found policy uniformly: either
// unknown ids are transparently created, or they fail with
// ErrSessionNotFound. The policy never varies by endpoint.
func resolveSession(sessions *store.SessionStore, sessionID string, autoCreate bool) (model.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return model.Session{}, ErrInvalidInput
	}
	if autoCreate {
		return sessions.GetOrCreate(sessionID), nil
	}
	sess, ok := sessions.Get(sessionID)
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	return sess, nil
}
