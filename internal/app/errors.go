package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a request the caller can fix: wrong file type,
	// blank question, malformed history.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSessionNotFound is returned when auto-create is disabled and the
	// session id is unknown, and for deletes of unknown sessions.
	ErrSessionNotFound  = errors.New("session not found")
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoDocuments is the precondition failure for chatting with a
	// session that has nothing indexed yet.
	ErrNoDocuments = errors.New("no documents indexed for session")
)

// CollaboratorError wraps a failure from an external collaborator
// (extraction, embedding, index, completion). The upstream message is kept;
// nothing is retried here.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func collaboratorErr(op string, err error) error {
	return &CollaboratorError{Op: op, Err: err}
}
