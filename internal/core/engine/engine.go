package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docuvoice/docuvoice/internal/core"
	"github.com/docuvoice/docuvoice/internal/core/index"
	"github.com/docuvoice/docuvoice/internal/models"
)

// FallbackAnswer replaces a blank model response before it reaches the user
// or the speech synthesizer.
const FallbackAnswer = "I could not find an answer in the document."

const systemPrompt = "You are an intelligent assistant answering based only on the given document content. If unsure, say 'I cannot find this in the document.'"

// Engine answers questions over one indexed document, retaining every turn of
// the conversation. A session without an Engine is in the Unindexed state;
// constructing an Engine is the transition to Ready. Re-processing a document
// builds a brand-new Engine, so conversation memory never crosses documents.
type Engine struct {
	idx      *index.Memory
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
	topK     int
	turns    []models.Turn
}

var _ models.Answerer = (*Engine)(nil)

func New(idx *index.Memory, embedder core.EmbeddingProvider, llm core.LLMProvider, topK int) *Engine {
	if topK <= 0 {
		topK = 4
	}
	return &Engine{idx: idx, embedder: embedder, llm: llm, topK: topK}
}

// Ask retrieves the topK chunks nearest the question, prompts the model with
// that context plus the full prior conversation, appends the new turn pair and
// returns the updated turn list. A failed generation appends nothing, so the
// conversation never holds a half-turn.
func (e *Engine) Ask(ctx context.Context, question string) ([]models.Turn, error) {
	vecs, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed question: empty result")
	}

	hits := e.idx.Search(vecs[0], e.topK)

	var sb strings.Builder
	sb.WriteString("Context:\n")
	for _, h := range hits {
		sb.WriteString(h.Chunk.Text)
		sb.WriteString("\n---\n")
	}
	if len(e.turns) > 0 {
		sb.WriteString("\nConversation so far:\n")
		for _, t := range e.turns {
			if t.Role == "user" {
				sb.WriteString("User: ")
			} else {
				sb.WriteString("Assistant: ")
			}
			sb.WriteString(t.Content)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)

	answer, err := e.llm.Generate(ctx, systemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	answer = NormalizeAnswer(answer)

	now := time.Now()
	e.turns = append(e.turns,
		models.Turn{Role: "user", Content: question, CreatedAt: now},
		models.Turn{Role: "assistant", Content: answer, CreatedAt: now},
	)
	return e.Turns(), nil
}

// Turns returns a copy of the conversation so far, oldest first.
func (e *Engine) Turns() []models.Turn {
	return append([]models.Turn(nil), e.turns...)
}

// NormalizeAnswer prepares a model response for display and narration: a blank
// answer becomes the fixed fallback sentence, and answers shorter than three
// words gain terminal punctuation so synthesis prosody does not trail off.
func NormalizeAnswer(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return FallbackAnswer
	}
	last, _ := utf8.DecodeLastRuneInString(answer)
	if len(strings.Fields(answer)) < 3 && !strings.ContainsRune(".!?。！？", last) {
		answer += "."
	}
	return answer
}
