package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
	"pdfchat/internal/model"
	"pdfchat/internal/transport/http/response"
)

type ChatHandler struct {
	answerService *app.AnswerService
}

type historyEntry struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type askRequest struct {
	Question string         `json:"question" binding:"required"`
	History  []historyEntry `json:"history"`
	TopK     int            `json:"top_k"`
}

func NewChatHandler(answerService *app.AnswerService) *ChatHandler {
	return &ChatHandler{answerService: answerService}
}

// Ask answers a question from the session's documents. An optional history
// array of {role, content} pairs overrides the stored ledger as prior-turn
// context.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	history := make([]model.ChatMessage, 0, len(req.History))
	for _, e := range req.History {
		role := model.Role(e.Role)
		if !role.Valid() {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "history role must be user or assistant")
			return
		}
		history = append(history, model.ChatMessage{Role: role, Content: e.Content})
	}

	result, err := h.answerService.Ask(c.Request.Context(), app.AskInput{
		SessionID: c.Param("id"),
		Question:  req.Question,
		History:   history,
		TopK:      req.TopK,
	})
	if err != nil {
		writeServiceError(c, err, "ask failed")
		return
	}

	response.OK(c, result)
}
