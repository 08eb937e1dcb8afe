package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
	"pdfchat/internal/transport/http/response"
)

// writeServiceError is the single translation point from the service error
// taxonomy to transport status codes. Collaborator failures surface only
// the upstream message, never stack detail.
func writeServiceError(c *gin.Context, err error, fallback string) {
	var collab *app.CollaboratorError
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, app.ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
	case errors.Is(err, app.ErrNoDocuments):
		response.Error(c, http.StatusBadRequest, response.CodeNoDocuments, err.Error())
	case errors.As(err, &collab):
		response.Error(c, http.StatusBadGateway, response.CodeUpstreamFailed, collab.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
