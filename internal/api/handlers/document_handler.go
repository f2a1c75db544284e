package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/docuvoice/docuvoice/internal/core/index"
	"github.com/docuvoice/docuvoice/internal/core/ingest"
	"github.com/docuvoice/docuvoice/internal/services"
)

type DocumentHandler struct {
	sessions *services.SessionService
}

func NewDocumentHandler(sessions *services.SessionService) *DocumentHandler {
	return &DocumentHandler{sessions: sessions}
}

// Upload accepts one or more files under the multipart field "files" and
// processes them into a fresh index for the session. Indexing failure is fatal
// to this action only; the session keeps whatever it had before.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	uploads := make([]ingest.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "invalid file", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "failed to read file", http.StatusBadRequest)
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			if filepath.Ext(fh.Filename) == ".pdf" {
				contentType = "application/pdf"
			}
		}

		uploads = append(uploads, ingest.Upload{
			Name:        filepath.Base(fh.Filename),
			ContentType: contentType,
			Data:        data,
		})
	}

	chunkCount, err := h.sessions.Process(r.Context(), sessionID, uploads)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, index.ErrNoChunks):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "processing failed: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ready",
		"chunks": chunkCount,
	})
}
