package http

import (
	"github.com/gin-gonic/gin"

	appsvc "pdfchat/internal/app"
	"pdfchat/internal/bootstrap"
	"pdfchat/internal/pkg/pdfextract"
	"pdfchat/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config
	sessionService := appsvc.NewSessionService(
		app.Store,
		app.Index,
		cfg.Session.AutoCreate,
		cfg.Index.CascadeDelete,
	)
	ingestService := appsvc.NewIngestService(
		app.Store,
		app.Index,
		appsvc.ExtractorFunc(pdfextract.ExtractText),
		cfg.Chunking.Size,
		cfg.Chunking.Overlap,
		cfg.Session.AutoCreate,
	)
	answerService := appsvc.NewAnswerService(
		app.Store,
		app.Index,
		app.LLM,
		app.Publisher,
		cfg.Retrieval.TopK,
		cfg.Retrieval.HistoryWindow,
		cfg.Session.AutoCreate,
	)

	sessionHandler := handler.NewSessionHandler(sessionService)
	documentHandler := handler.NewDocumentHandler(ingestService, sessionService)
	chatHandler := handler.NewChatHandler(answerService)

	v1 := router.Group("/api/v1")
	v1.POST("/sessions", sessionHandler.Create)
	v1.GET("/sessions/:id", sessionHandler.History)
	v1.DELETE("/sessions/:id", sessionHandler.Delete)
	v1.POST("/sessions/:id/documents", documentHandler.Upload)
	v1.DELETE("/sessions/:id/documents/:docID", documentHandler.Delete)
	v1.POST("/sessions/:id/chat", chatHandler.Ask)

	return router
}
