package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docuvoice/docuvoice/internal/models"
)

// Registry holds every live session, keyed by ID. Sessions are independent and
// single-writer; the registry lock only guards the map itself.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*models.Session)}
}

// Create starts a fresh session in the Unindexed state.
func (r *Registry) Create() *models.Session {
	s := &models.Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		Narrations:   make(map[string][]byte),
		Translations: make(map[string]string),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for id, or nil when it does not exist.
func (r *Registry) Get(id string) *models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Delete discards a session and all its state.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
