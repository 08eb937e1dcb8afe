package model

import "time"

// Session is an ephemeral workspace binding uploaded documents to a chat
// ledger. Sessions live only for the lifetime of the process.
type Session struct {
	ID        string        `json:"session_id"`
	CreatedAt time.Time     `json:"created_at"`
	Documents []Document    `json:"documents"`
	Messages  []ChatMessage `json:"messages"`
}

type Document struct {
	ID           string    `json:"document_id"`
	SessionID    string    `json:"session_id"`
	Filename     string    `json:"filename"`
	SegmentCount int       `json:"segment_count"`
	CreatedAt    time.Time `json:"created_at"`
}
