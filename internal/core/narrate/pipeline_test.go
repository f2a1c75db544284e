package narrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return text, nil
}

type fakeSynth struct {
	perCall []byte
	err     error
	texts   []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	if f.perCall != nil {
		return f.perCall, nil
	}
	// audio length proportional to the text, so byte-sum checks are meaningful
	return make([]byte, len(text)), nil
}

// longText builds ~9999 characters of 9-letter words, which wraps into exactly
// three sub-chunks at the 4500-character limit.
func longText() string {
	words := make([]string, 1000)
	for i := range words {
		words[i] = "abcdefghi"
	}
	return strings.Join(words, " ")
}

func TestNarrate_SplitsLongTextInOrder(t *testing.T) {
	tr := &fakeTranslator{}
	synth := &fakeSynth{}
	p := NewPipeline(tr, synth, DefaultMaxChars)

	text := longText()
	audio, spoken, err := p.Narrate(context.Background(), text, "hi")
	require.NoError(t, err)
	assert.Equal(t, text, spoken, "spoken text is the translator output")

	assert.Equal(t, 1, tr.calls, "translation runs once over the full text")
	require.Len(t, synth.texts, 3)

	var wantLen int
	for _, part := range synth.texts {
		assert.LessOrEqual(t, len(part), DefaultMaxChars)
		wantLen += len(part)
	}
	assert.Equal(t, wantLen, len(audio), "audio is the in-order concatenation of every sub-chunk")

	// No sub-chunk boundary may split a word.
	for _, part := range synth.texts {
		for _, w := range strings.Fields(part) {
			assert.Equal(t, "abcdefghi", w)
		}
	}
}

func TestNarrate_SourceLanguageSkipsTranslation(t *testing.T) {
	tr := &fakeTranslator{}
	synth := &fakeSynth{}
	p := NewPipeline(tr, synth, 0)

	_, spoken, err := p.Narrate(context.Background(), "hello there world", "en")
	require.NoError(t, err)
	assert.Zero(t, tr.calls)
	assert.Equal(t, "hello there world", spoken)
}

func TestNarrate_TranslationFailureIsNarrated(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("quota exceeded")}
	synth := &fakeSynth{}
	p := NewPipeline(tr, synth, 0)

	audio, spoken, err := p.Narrate(context.Background(), "some document text", "hi")
	require.NoError(t, err, "translation failure must not abort narration")
	require.Len(t, synth.texts, 1)
	assert.Equal(t, TranslationFailed, synth.texts[0])
	assert.Equal(t, TranslationFailed, spoken)
	assert.NotEmpty(t, audio)
}

func TestNarrate_SynthesisFailureAborts(t *testing.T) {
	p := NewPipeline(&fakeTranslator{}, &fakeSynth{err: errors.New("tts down")}, 0)
	_, _, err := p.Narrate(context.Background(), "hello world", "en")
	assert.Error(t, err)
}

func TestNarrate_EmptyAudioDetected(t *testing.T) {
	p := NewPipeline(&fakeTranslator{}, &fakeSynth{perCall: []byte{}}, 0)
	_, _, err := p.Narrate(context.Background(), "hello world", "en")
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestTranslate_RendersForDisplay(t *testing.T) {
	tr := &fakeTranslator{out: "hallo welt"}
	p := NewPipeline(tr, &fakeSynth{}, 0)

	assert.Equal(t, "hallo welt", p.Translate(context.Background(), "hello world", "de"))
	assert.Equal(t, 1, tr.calls)

	// The source language is passed through without a translator call.
	assert.Equal(t, "hello world", p.Translate(context.Background(), "hello world", "en"))
	assert.Equal(t, 1, tr.calls)
}

func TestTranslate_FailureDegradesToSentence(t *testing.T) {
	p := NewPipeline(&fakeTranslator{err: errors.New("quota exceeded")}, &fakeSynth{}, 0)
	assert.Equal(t, TranslationFailed, p.Translate(context.Background(), "hello", "hi"))
}

func TestSpeak_NeverTranslates(t *testing.T) {
	tr := &fakeTranslator{}
	synth := &fakeSynth{}
	p := NewPipeline(tr, synth, 0)

	audio, err := p.Speak(context.Background(), "The sky is blue.", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, audio)
	assert.Zero(t, tr.calls, "spoken text is already in the user's language")
	require.Len(t, synth.texts, 1)
	assert.Equal(t, "The sky is blue.", synth.texts[0])
}

func TestWrapWords_NeverSplitsWords(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta"
	parts := WrapWords(text, 12)
	require.NotEmpty(t, parts)

	joined := strings.Join(parts, " ")
	assert.Equal(t, strings.Join(strings.Fields(text), " "), joined)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 12)
	}
}

func TestWrapWords_OverlongWordKeptWhole(t *testing.T) {
	parts := WrapWords("tiny supercalifragilisticexpialidocious end", 10)
	assert.Contains(t, parts, "supercalifragilisticexpialidocious")
}

func TestWrapWords_Empty(t *testing.T) {
	assert.Empty(t, WrapWords("   ", 100))
}
