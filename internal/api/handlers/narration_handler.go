package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/docuvoice/docuvoice/internal/services"
)

// Languages the narration UI offers, each with its two-letter code.
var supportedLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"mr": "Marathi",
	"es": "Spanish",
	"de": "German",
	"ta": "Tamil",
	"ja": "Japanese",
	"ru": "Russian",
	"ko": "Korean",
}

type NarrationHandler struct {
	sessions *services.SessionService
}

func NewNarrationHandler(sessions *services.SessionService) *NarrationHandler {
	return &NarrationHandler{sessions: sessions}
}

type narrateRequest struct {
	Language string `json:"language"`
}

// Narrate streams the MP3 narration of the current document, translated to the
// requested language. Repeated requests with unchanged inputs are served from
// the session's narration cache.
func (h *NarrationHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req narrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	if _, ok := supportedLanguages[lang]; !ok {
		http.Error(w, fmt.Sprintf("unsupported language %q", lang), http.StatusBadRequest)
		return
	}

	audio, err := h.sessions.Narrate(r.Context(), sessionID, lang)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, services.ErrNoDocument):
			http.Error(w, "no document to narrate", http.StatusConflict)
		default:
			http.Error(w, "narration failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "narration_"+lang+".mp3"))
	w.Write(audio)
}

// Translation returns the current document's text in the language given by the
// "language" query parameter, for display alongside the narration audio.
func (h *NarrationHandler) Translation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	lang := r.URL.Query().Get("language")
	if lang == "" {
		lang = "en"
	}
	if _, ok := supportedLanguages[lang]; !ok {
		http.Error(w, fmt.Sprintf("unsupported language %q", lang), http.StatusBadRequest)
		return
	}

	text, err := h.sessions.Translation(r.Context(), sessionID, lang)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, services.ErrNoDocument):
			http.Error(w, "no document to translate", http.StatusConflict)
		default:
			http.Error(w, "translation failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"language": lang,
		"text":     text,
	})
}

type speakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Speak reads a piece of text aloud, untranslated. The UI uses it to voice
// answers and web snippets.
func (h *NarrationHandler) Speak(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	if _, ok := supportedLanguages[lang]; !ok {
		http.Error(w, fmt.Sprintf("unsupported language %q", lang), http.StatusBadRequest)
		return
	}

	audio, err := h.sessions.Speak(r.Context(), sessionID, req.Text, lang)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, services.ErrEmptySpeech):
			http.Error(w, "text is empty", http.StatusBadRequest)
		default:
			http.Error(w, "speech failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}

// Languages lists the supported narration languages.
func (h *NarrationHandler) Languages(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(supportedLanguages)
}
