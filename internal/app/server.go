package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/docuvoice/docuvoice/internal/api/handlers"
	"github.com/docuvoice/docuvoice/internal/config"
	"github.com/docuvoice/docuvoice/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, sessions *services.SessionService) *Server {
	sessionHandler := handlers.NewSessionHandler(sessions)
	docHandler := handlers.NewDocumentHandler(sessions)
	chatHandler := handlers.NewChatHandler(sessions)
	narrationHandler := handlers.NewNarrationHandler(sessions)
	searchHandler := handlers.NewSearchHandler(sessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Serve the browser UI from the web directory
	fileServer := http.FileServer(http.Dir("./web"))
	r.Handle("/*", fileServer)

	// API routes
	r.Route("/api", func(api chi.Router) {
		api.Post("/sessions", sessionHandler.Create)
		api.Get("/languages", narrationHandler.Languages)

		api.Route("/sessions/{sessionID}", func(sr chi.Router) {
			sr.Post("/documents", docHandler.Upload)
			sr.Post("/ask", chatHandler.Ask)
			sr.Post("/ask/voice", chatHandler.AskVoice)
			sr.Post("/intent", chatHandler.Intent)
			sr.Post("/narrate", narrationHandler.Narrate)
			sr.Get("/translation", narrationHandler.Translation)
			sr.Post("/speak", narrationHandler.Speak)
			sr.Post("/search", searchHandler.Search)
			sr.Get("/conversation", sessionHandler.Conversation)
			sr.Delete("/", sessionHandler.Delete)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
