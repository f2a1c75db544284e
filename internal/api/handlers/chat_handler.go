package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docuvoice/docuvoice/internal/core/voice"
	"github.com/docuvoice/docuvoice/internal/services"
)

type ChatHandler struct {
	sessions *services.SessionService
}

func NewChatHandler(sessions *services.SessionService) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a typed question from the indexed document. Before any document
// is processed the user gets an explicit 409 with the available choices rather
// than a silent failure.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	turns, err := h.sessions.Ask(r.Context(), sessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, services.ErrEmptyQuestion):
			http.Error(w, "question is empty", http.StatusBadRequest)
		case errors.Is(err, services.ErrNotReady):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"error":   "no document has been processed yet",
				"choices": []string{"web_search", "abandon"},
			})
		default:
			http.Error(w, "answering failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"turns": turns})
}

// AskVoice accepts captured audio under the multipart field "audio" and routes
// the transcript through the same answering path as typed text. Capture
// failures come back as their sentence with a 200; they are outcomes, not
// faults.
func (h *ChatHandler) AskVoice(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	f, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "missing audio", http.StatusBadRequest)
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "failed to read audio", http.StatusBadRequest)
		return
	}

	lang := r.FormValue("language")
	outcome, turns, err := h.sessions.AskVoice(r.Context(), sessionID, audio, lang)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, services.ErrNotReady):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"transcript": outcome.Text,
				"error":      "no document has been processed yet",
				"choices":    []string{"web_search", "abandon"},
			})
		default:
			http.Error(w, "answering failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if outcome.Kind != voice.Recognized {
		json.NewEncoder(w).Encode(map[string]any{"message": outcome.Sentence()})
		return
	}

	// A spoken question gets a spoken answer. If synthesis fails the text
	// answer still goes out, just without audio.
	resp := map[string]any{
		"transcript": outcome.Text,
		"turns":      turns,
	}
	if len(turns) > 0 {
		answer := turns[len(turns)-1].Content
		if audio, err := h.sessions.Speak(r.Context(), sessionID, answer, "en"); err != nil {
			log.Printf("voice answer synthesis failed: %v", err)
		} else {
			resp["answer_audio"] = base64.StdEncoding.EncodeToString(audio)
		}
	}
	json.NewEncoder(w).Encode(resp)
}

type intentRequest struct {
	Text string `json:"text"`
}

// Intent labels an utterance as a command or a question.
func (h *ChatHandler) Intent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	label, err := h.sessions.ClassifyIntent(r.Context(), req.Text)
	if err != nil {
		http.Error(w, "classification failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"intent": label})
}
