package narrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/docuvoice/docuvoice/internal/core"
)

// TranslationFailed is narrated in place of the document when the translator
// errors out, so the failure is heard rather than silently swallowed.
const TranslationFailed = "Translation failed. Please try again."

// DefaultMaxChars is the synthesis backend's per-request text limit.
const DefaultMaxChars = 4500

// ErrEmptyAudio signals that synthesis produced zero bytes for non-empty text.
var ErrEmptyAudio = errors.New("synthesis produced no audio")

// Pipeline turns document text into one continuous MP3 stream, optionally
// translating it first.
type Pipeline struct {
	translator core.Translator
	synth      core.SpeechSynthesizer
	maxChars   int
}

func NewPipeline(translator core.Translator, synth core.SpeechSynthesizer, maxChars int) *Pipeline {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Pipeline{translator: translator, synth: synth, maxChars: maxChars}
}

// Narrate translates text into lang (skipped when lang is the source language,
// English), splits it into word-boundary sub-chunks within the backend's
// request limit, synthesizes each in order and concatenates the audio. The
// second return value is the text that was actually spoken, so callers can
// display it alongside the audio. Translation failure degrades to narrating
// the fixed failure sentence; synthesis failure aborts.
func (p *Pipeline) Narrate(ctx context.Context, text, lang string) ([]byte, string, error) {
	spoken := p.Translate(ctx, text, lang)
	audio, err := p.Speak(ctx, spoken, lang)
	if err != nil {
		return nil, "", err
	}
	return audio, spoken, nil
}

// Translate renders text in lang for display. The source language, English, is
// passed through unchanged; a translator error degrades to the fixed failure
// sentence rather than aborting.
func (p *Pipeline) Translate(ctx context.Context, text, lang string) string {
	if lang == "" || lang == "en" {
		return text
	}
	translated, err := p.translator.Translate(ctx, text, lang)
	if err != nil {
		log.Printf("narrate: translation to %q failed: %v", lang, err)
		return TranslationFailed
	}
	return translated
}

// Speak synthesizes text as-is in lang, without translating it first. Used for
// reading answers and snippets aloud, which are already in the user's language.
func (p *Pipeline) Speak(ctx context.Context, text, lang string) ([]byte, error) {
	var buf bytes.Buffer
	for _, part := range WrapWords(text, p.maxChars) {
		audio, err := p.synth.Synthesize(ctx, part, lang)
		if err != nil {
			return nil, fmt.Errorf("synthesize: %w", err)
		}
		buf.Write(audio)
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyAudio
	}
	return buf.Bytes(), nil
}

// WrapWords splits text into pieces of at most maxChars characters, breaking
// only between words. A single word longer than maxChars is kept whole in its
// own piece rather than split.
func WrapWords(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		parts []string
		cur   strings.Builder
	)
	for _, w := range words {
		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
		case cur.Len()+1+len(w) <= maxChars:
			cur.WriteByte(' ')
			cur.WriteString(w)
		default:
			parts = append(parts, cur.String())
			cur.Reset()
			cur.WriteString(w)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
