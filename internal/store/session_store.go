// Package store holds all live sessions for the lifetime of the process.
// Nothing here survives a restart.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pdfchat/internal/model"
)

// SessionStore maps session identifiers to their documents and chat ledger.
// Mutations to a single session are serialized by a per-session mutex;
// reads return copied snapshots.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	sess model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*entry)}
}

// Create registers a new session under a freshly minted identifier.
func (s *SessionStore) Create() model.Session {
	sess := model.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = &entry{sess: sess}
	s.mu.Unlock()
	return sess
}

// GetOrCreate returns the session for id, registering an empty one under
// that exact id if absent.
func (s *SessionStore) GetOrCreate(id string) model.Session {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{sess: model.Session{ID: id, CreatedAt: time.Now()}}
		s.sessions[id] = e
	}
	s.mu.Unlock()
	return e.snapshot()
}

// Get returns a snapshot of the session, or false if the id is unknown.
// Lookup is by exact identifier match.
func (s *SessionStore) Get(id string) (model.Session, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return model.Session{}, false
	}
	return e.snapshot(), true
}

// Delete removes the session. Returns false if the id is unknown.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// AppendDocument appends a document record to the session.
func (s *SessionStore) AppendDocument(sessionID string, doc model.Document) bool {
	e, ok := s.lookup(sessionID)
	if !ok {
		return false
	}
	e.mu.Lock()
	e.sess.Documents = append(e.sess.Documents, doc)
	e.mu.Unlock()
	return true
}

// RemoveDocument removes the document record from the session. The removed
// record is returned; sessionOK and docOK report which lookup failed.
func (s *SessionStore) RemoveDocument(sessionID, documentID string) (doc model.Document, sessionOK, docOK bool) {
	e, ok := s.lookup(sessionID)
	if !ok {
		return model.Document{}, false, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, d := range e.sess.Documents {
		if d.ID == documentID {
			e.sess.Documents = append(e.sess.Documents[:i], e.sess.Documents[i+1:]...)
			return d, true, true
		}
	}
	return model.Document{}, true, false
}

// AppendMessages appends entries to the session's chat ledger in order.
func (s *SessionStore) AppendMessages(sessionID string, msgs ...model.ChatMessage) bool {
	e, ok := s.lookup(sessionID)
	if !ok {
		return false
	}
	e.mu.Lock()
	e.sess.Messages = append(e.sess.Messages, msgs...)
	e.mu.Unlock()
	return true
}

// Counts returns the number of live sessions and their total document count.
func (s *SessionStore) Counts() (sessions, documents int) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		documents += len(e.sess.Documents)
		e.mu.Unlock()
	}
	return len(entries), documents
}

func (s *SessionStore) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	return e, ok
}

func (e *entry) snapshot() model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess := e.sess
	sess.Documents = append([]model.Document(nil), e.sess.Documents...)
	sess.Messages = append([]model.ChatMessage(nil), e.sess.Messages...)
	return sess
}
