package models

import (
	"context"
	"sync"
	"time"
)

// Turn is an individual conversation entry (user question or assistant answer).
type Turn struct {
	Role      string    `json:"role"`    // "user" or "assistant"
	Content   string    `json:"content"` // message text
	CreatedAt time.Time `json:"created_at"`
}

// Chunk represents one text chunk cut from the current document.
//
// Overlap is the number of leading runes this chunk shares with the tail of its
// predecessor. Stripping Overlap runes from every chunk and concatenating the
// remainders reconstructs the source text exactly.
type Chunk struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Overlap int    `json:"overlap"`
}

// ScoredChunk is a retrieval hit with its similarity score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Session is the per-user state bag. All fields are guarded by Mu; each user
// action locks the session for its whole duration, so a session never sees
// concurrent mutation.
type Session struct {
	Mu sync.Mutex `json:"-"`

	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Current document: replaced wholesale on every successful Process.
	DocumentText string `json:"-"`
	DocumentHash string `json:"document_hash,omitempty"`

	// Engine is nil until the first successful Process (the Unindexed state).
	Engine Answerer `json:"-"`

	PendingQuestion string `json:"pending_question,omitempty"`
	LastAnswered    string `json:"-"`
	LastSnippet     string `json:"-"`

	// Narration and translation caches keyed by "<document hash>:<language>".
	// Cleared on re-process so stale audio or text from a previous document
	// cannot be served.
	Narrations   map[string][]byte `json:"-"`
	Translations map[string]string `json:"-"`
}

// Answerer is the conversation-holding question answerer owned by a session.
// A fresh one is constructed alongside every new index.
type Answerer interface {
	Ask(ctx context.Context, question string) ([]Turn, error)
	Turns() []Turn
}
