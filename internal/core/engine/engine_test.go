package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvoice/docuvoice/internal/core/index"
	"github.com/docuvoice/docuvoice/internal/models"
)

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

type fakeLLM struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func buildEngine(t *testing.T, llm *fakeLLM) *Engine {
	t.Helper()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"The sky is blue.":           {1, 0, 0},
		"What color is the sky?":     {0.9, 0.1, 0},
		"Cats sleep most of the day": {0, 1, 0},
	}}
	idx, err := index.Build(context.Background(), emb, []models.Chunk{
		{Index: 0, Text: "The sky is blue."},
		{Index: 1, Text: "Cats sleep most of the day"},
	})
	require.NoError(t, err)
	return New(idx, emb, llm, 1)
}

func TestAsk_AnswersFromRetrievedContext(t *testing.T) {
	llm := &fakeLLM{answer: "The sky is blue."}
	e := buildEngine(t, llm)

	turns, err := e.Ask(context.Background(), "What color is the sky?")
	require.NoError(t, err)

	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "What color is the sky?", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.Contains(t, turns[1].Content, "blue")

	// The nearest chunk must appear in the prompt context.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "The sky is blue.")
}

func TestAsk_PriorTurnsCarriedIntoPrompt(t *testing.T) {
	llm := &fakeLLM{answer: "Because of Rayleigh scattering in the atmosphere."}
	e := buildEngine(t, llm)

	_, err := e.Ask(context.Background(), "What color is the sky?")
	require.NoError(t, err)
	_, err = e.Ask(context.Background(), "Why is that?")
	require.NoError(t, err)

	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "User: What color is the sky?")
	assert.Contains(t, llm.prompts[1], "Assistant: Because of Rayleigh scattering")
}

func TestAsk_FailedGenerationAppendsNothing(t *testing.T) {
	llm := &fakeLLM{err: errors.New("model unavailable")}
	e := buildEngine(t, llm)

	_, err := e.Ask(context.Background(), "What color is the sky?")
	require.Error(t, err)
	assert.Empty(t, e.Turns(), "a failed turn must not be appended")
}

func TestAsk_TurnsReturnsCopy(t *testing.T) {
	llm := &fakeLLM{answer: "Blue."}
	e := buildEngine(t, llm)

	turns, err := e.Ask(context.Background(), "What color is the sky?")
	require.NoError(t, err)

	turns[0].Content = "mutated"
	assert.Equal(t, "What color is the sky?", e.Turns()[0].Content)
}

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", FallbackAnswer},
		{"   \n\t ", FallbackAnswer},
		{"Yes", "Yes."},
		{"Blue sky", "Blue sky."},
		{"No!", "No!"},
		{"はい。", "はい。"},
		{"不确定！", "不确定！"},
		{"The document says the sky is blue", "The document says the sky is blue"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeAnswer(c.in), "input %q", c.in)
	}
}

func TestNormalizeAnswer_BlankBecomesSpeakable(t *testing.T) {
	out := NormalizeAnswer("  ")
	assert.True(t, strings.HasSuffix(out, "."), "fallback must carry terminal punctuation for synthesis")
}
