package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
	"pdfchat/internal/transport/http/response"
)

const maxPDFSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	ingestService  *app.IngestService
	sessionService *app.SessionService
}

func NewDocumentHandler(ingestService *app.IngestService, sessionService *app.SessionService) *DocumentHandler {
	return &DocumentHandler{
		ingestService:  ingestService,
		sessionService: sessionService,
	}
}

// Upload accepts a multipart form with "file" (PDF), ingests it into the
// session and returns the new document with its segment count. The upload
// handle is closed whether or not ingestion succeeds.
func (h *DocumentHandler) Upload(c *gin.Context) {
	sessionID := c.Param("id")

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxPDFSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	doc, err := h.ingestService.Ingest(c.Request.Context(), sessionID, file.Filename, f)
	if err != nil {
		writeServiceError(c, err, "ingest failed")
		return
	}

	response.OK(c, gin.H{
		"document_id":   doc.ID,
		"filename":      doc.Filename,
		"segment_count": doc.SegmentCount,
		"session_id":    doc.SessionID,
	})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	sessionID := c.Param("id")
	documentID := c.Param("docID")
	if err := h.sessionService.DeleteDocument(c.Request.Context(), sessionID, documentID); err != nil {
		writeServiceError(c, err, "delete document failed")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": documentID})
}
