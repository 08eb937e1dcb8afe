package handler

import (
	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
	"pdfchat/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	sess := h.sessionService.Create()
	response.OK(c, gin.H{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt,
	})
}

// History returns the session's chat ledger and document list in
// chronological order.
func (h *SessionHandler) History(c *gin.Context) {
	sess, err := h.sessionService.History(c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "get history failed")
		return
	}
	response.OK(c, gin.H{
		"session_id": sess.ID,
		"messages":   sess.Messages,
		"documents":  sess.Documents,
	})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.sessionService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		writeServiceError(c, err, "delete session failed")
		return
	}
	response.OK(c, gin.H{"deleted_session_id": sessionID})
}
