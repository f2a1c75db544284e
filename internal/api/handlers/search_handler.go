package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/docuvoice/docuvoice/internal/services"
)

type SearchHandler struct {
	sessions *services.SessionService
}

func NewSearchHandler(sessions *services.SessionService) *SearchHandler {
	return &SearchHandler{sessions: sessions}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search runs the web fallback for a query. Explicitly invoking the fallback
// clears the last-answered question, so resubmitting the same text to the
// document path afterwards is treated as new.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is empty", http.StatusBadRequest)
		return
	}

	snippet, err := h.sessions.WebSearch(r.Context(), sessionID, req.Query)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"snippet": snippet})
}
