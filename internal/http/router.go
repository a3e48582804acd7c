package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chunkmark/internal/handlers"
	"chunkmark/internal/service"
	"chunkmark/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service service.HighlightService
	// DB is pinged by the health check; nil disables the check.
	DB handlers.Pinger
	// VectorStore is checked by the health check; nil when the locator is disabled.
	VectorStore    vectorstore.VectorStore
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.VectorStore, deps.CollectionName)
	documentsHandler := handlers.NewDocumentsHandler(deps.Service)
	viewsHandler := handlers.NewViewsHandler(deps.Service)
	viewHandler := handlers.NewViewHandler(deps.Service)
	messageHandler := handlers.NewMessageHandler(deps.Service)
	askHandler := handlers.NewAskHandler(deps.Service)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodGet, "/documents", documentsHandler)
			r.Method(http.MethodDelete, "/documents", documentsHandler)

			r.Method(http.MethodGet, "/views", viewsHandler)
			r.Method(http.MethodPost, "/views", viewsHandler)
			r.Method(http.MethodGet, "/views/{id}", viewHandler)
			r.Method(http.MethodDelete, "/views/{id}", viewHandler)
			r.Method(http.MethodPost, "/views/{id}/messages", messageHandler)
			r.Method(http.MethodPost, "/views/{id}/ask", askHandler)
		})
	})

	return r
}
