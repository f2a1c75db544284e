package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/docuvoice/docuvoice/internal/config"
	"github.com/docuvoice/docuvoice/internal/core"
	"github.com/docuvoice/docuvoice/internal/core/engine"
	"github.com/docuvoice/docuvoice/internal/core/index"
	"github.com/docuvoice/docuvoice/internal/core/ingest"
	"github.com/docuvoice/docuvoice/internal/core/narrate"
	"github.com/docuvoice/docuvoice/internal/core/voice"
	"github.com/docuvoice/docuvoice/internal/core/websearch"
	"github.com/docuvoice/docuvoice/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyQuestion   = errors.New("question is empty")

	// ErrNotReady means no document has been indexed yet. The handler turns
	// this into an explicit choice for the user (web search or abandon)
	// instead of failing silently.
	ErrNotReady = errors.New("no document has been processed yet")

	// ErrNoDocument means narration was requested before any document exists.
	ErrNoDocument = errors.New("no document to narrate")

	// ErrEmptySpeech means a read-aloud request carried no text.
	ErrEmptySpeech = errors.New("nothing to speak")
)

// SessionService is the orchestration layer: it decides when indexing is
// (re)triggered, whether a question goes to the document engine or the web
// fallback, and when narration is (re)generated. Each user action locks its
// session for the full duration, so one session handles one action at a time.
type SessionService struct {
	registry  *Registry
	cfg       *config.Config
	extractor core.DocumentExtractor
	embedder  core.EmbeddingProvider
	llm       core.LLMProvider
	narrator  *narrate.Pipeline
	intake    *voice.Intake
	searcher  core.WebSearcher
}

func NewSessionService(
	registry *Registry,
	cfg *config.Config,
	extractor core.DocumentExtractor,
	embedder core.EmbeddingProvider,
	llm core.LLMProvider,
	narrator *narrate.Pipeline,
	intake *voice.Intake,
	searcher core.WebSearcher,
) *SessionService {
	return &SessionService{
		registry:  registry,
		cfg:       cfg,
		extractor: extractor,
		embedder:  embedder,
		llm:       llm,
		narrator:  narrator,
		intake:    intake,
		searcher:  searcher,
	}
}

func (s *SessionService) Create() *models.Session {
	return s.registry.Create()
}

// Delete discards a session and everything it owns: document, index,
// conversation and cached narration.
func (s *SessionService) Delete(id string) error {
	if s.registry.Get(id) == nil {
		return ErrSessionNotFound
	}
	s.registry.Delete(id)
	return nil
}

func (s *SessionService) Get(id string) (*models.Session, error) {
	sess := s.registry.Get(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Process ingests the uploaded files into a fresh document, chunks and indexes
// it, and swaps in a brand-new answering engine with an empty conversation.
// On indexing failure the prior session state is left untouched, so the user
// can keep working with the previous document and retry.
func (s *SessionService) Process(ctx context.Context, sessionID string, uploads []ingest.Upload) (int, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return 0, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	text, err := ingest.ExtractAll(ctx, s.extractor, uploads)
	if err != nil {
		return 0, fmt.Errorf("extract documents: %w", err)
	}

	chunks := ingest.SplitText(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	idx, err := index.Build(ctx, s.embedder, chunks)
	if err != nil {
		return 0, err
	}

	// Only now that indexing succeeded is the session state replaced.
	sum := sha256.Sum256([]byte(text))
	sess.DocumentText = text
	sess.DocumentHash = hex.EncodeToString(sum[:])
	sess.Engine = engine.New(idx, s.embedder, s.llm, s.cfg.TopK)
	sess.LastAnswered = ""
	sess.LastSnippet = ""
	sess.Narrations = make(map[string][]byte)
	sess.Translations = make(map[string]string)

	log.Printf("session %s: indexed %d chunks (%d chars)", sess.ID, idx.Len(), len(text))
	return idx.Len(), nil
}

// Ask routes a typed question to the answering engine. Before the engine is
// Ready it returns ErrNotReady; an unchanged resubmission of the last answered
// question is served from the existing conversation without invoking the
// engine again. The pending question text is cleared only after a successful
// turn.
func (s *SessionService) Ask(ctx context.Context, sessionID, question string) ([]models.Turn, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	return s.ask(ctx, sess, question)
}

func (s *SessionService) ask(ctx context.Context, sess *models.Session, question string) ([]models.Turn, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, ErrEmptyQuestion
	}
	sess.PendingQuestion = question

	if sess.Engine == nil {
		return nil, ErrNotReady
	}

	if IsDuplicate(q, sess.LastAnswered) {
		return sess.Engine.Turns(), nil
	}

	turns, err := sess.Engine.Ask(ctx, q)
	if err != nil {
		return nil, err
	}
	sess.LastAnswered = q
	sess.PendingQuestion = ""
	return turns, nil
}

// IsDuplicate is the idempotency check guarding the answering engine: an
// incoming question equal to the last answered one must not re-invoke the
// engine or append a duplicate turn.
func IsDuplicate(question, lastAnswered string) bool {
	return lastAnswered != "" && question == lastAnswered
}

// AskVoice captures a spoken question and feeds the transcript through the
// same path as typed text. Failure variants surface their sentence without
// touching the engine or the conversation.
func (s *SessionService) AskVoice(ctx context.Context, sessionID string, audio []byte, lang string) (voice.Outcome, []models.Turn, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return voice.Outcome{}, nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	outcome := s.intake.Capture(ctx, audio, lang)
	if outcome.Kind != voice.Recognized {
		return outcome, nil, nil
	}

	turns, err := s.ask(ctx, sess, outcome.Text)
	return outcome, turns, err
}

// WebSearch issues the single-result fallback query, stores the snippet and
// clears the last-answered question, so the same text resubmitted to the
// document path afterwards is treated as new.
func (s *SessionService) WebSearch(ctx context.Context, sessionID, query string) (string, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return "", err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	snippet, err := s.searcher.Snippet(ctx, query)
	if err != nil {
		// A broken fallback provider is equivalent to no results.
		log.Printf("session %s: web search failed: %v", sess.ID, err)
		snippet = ""
	}
	if strings.TrimSpace(snippet) == "" {
		snippet = websearch.NoResults
	}

	sess.LastSnippet = snippet
	sess.LastAnswered = ""
	return snippet, nil
}

// Narrate returns the MP3 narration of the current document in lang,
// idempotent per (document, language): unchanged inputs are served from the
// session cache instead of re-synthesized. Re-processing clears the cache, so
// stale narration from a previous document is never served.
func (s *SessionService) Narrate(ctx context.Context, sessionID, lang string) ([]byte, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if sess.DocumentText == "" {
		return nil, ErrNoDocument
	}
	if lang == "" {
		lang = "en"
	}

	key := sess.DocumentHash + ":" + lang
	if audio, ok := sess.Narrations[key]; ok {
		return audio, nil
	}

	audio, spoken, err := s.narrator.Narrate(ctx, sess.DocumentText, lang)
	if err != nil {
		return nil, err
	}
	sess.Narrations[key] = audio
	sess.Translations[key] = spoken
	return audio, nil
}

// Translation returns the current document's text rendered in lang for
// display, cached per (document, language) like narration. Narrating a
// language fills this cache too, so the displayed text always matches what
// was spoken.
func (s *SessionService) Translation(ctx context.Context, sessionID, lang string) (string, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return "", err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if sess.DocumentText == "" {
		return "", ErrNoDocument
	}
	if lang == "" {
		lang = "en"
	}

	key := sess.DocumentHash + ":" + lang
	if text, ok := sess.Translations[key]; ok {
		return text, nil
	}

	text := s.narrator.Translate(ctx, sess.DocumentText, lang)
	sess.Translations[key] = text
	return text, nil
}

// Speak reads an answer or snippet aloud in lang without translating it; the
// text is already in the user's language by the time it is spoken.
func (s *SessionService) Speak(ctx context.Context, sessionID, text, lang string) ([]byte, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySpeech
	}
	if lang == "" {
		lang = "en"
	}
	return s.narrator.Speak(ctx, text, lang)
}

// Conversation returns the turns so far, or an empty list before Ready.
func (s *SessionService) Conversation(sessionID string) ([]models.Turn, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	if sess.Engine == nil {
		return []models.Turn{}, nil
	}
	return sess.Engine.Turns(), nil
}

// ClassifyIntent labels a spoken instruction as a command or a question.
func (s *SessionService) ClassifyIntent(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Classify the user instruction into one of two categories: 'command' or 'question'.\nInstruction: %q\nOnly respond with 'command' or 'question'.", text)

	out, err := s.llm.Generate(ctx, "", prompt)
	if err != nil {
		return "", fmt.Errorf("classify intent: %w", err)
	}
	label := strings.ToLower(strings.TrimSpace(out))
	if label != "command" {
		label = "question"
	}
	return label, nil
}
