package model

// Segment is a bounded slice of a document's extracted text, the unit of
// retrieval. Position is 0-based within the source document.
type Segment struct {
	DocumentID string `json:"document_id"`
	SessionID  string `json:"session_id"`
	Filename   string `json:"filename"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
}
