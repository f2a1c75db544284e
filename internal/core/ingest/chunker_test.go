package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconstruct(chunks []chunkLike) string {
	var sb strings.Builder
	for _, c := range chunks {
		runes := []rune(c.text)
		sb.WriteString(string(runes[c.overlap:]))
	}
	return sb.String()
}

type chunkLike struct {
	text    string
	overlap int
}

func TestSplitText_Reconstruction(t *testing.T) {
	inputs := []string{
		strings.Repeat("the quick brown fox jumps over the lazy dog. ", 200),
		strings.Repeat("x", 5000),
		"short text",
		strings.Repeat("Ein Satz mit Umlauten äöü und noch mehr Wörtern dahinter. ", 150),
	}

	for _, text := range inputs {
		chunks := SplitText(text, 1000, 200)
		require.NotEmpty(t, chunks)

		like := make([]chunkLike, len(chunks))
		for i, c := range chunks {
			like[i] = chunkLike{text: c.Text, overlap: c.Overlap}
		}
		assert.Equal(t, text, reconstruct(like))
	}
}

func TestSplitText_Deterministic(t *testing.T) {
	text := strings.Repeat("some words separated by spaces make a document. ", 100)
	a := SplitText(text, 500, 100)
	b := SplitText(text, 500, 100)
	assert.Equal(t, a, b)
}

func TestSplitText_EmptyInput(t *testing.T) {
	assert.Empty(t, SplitText("", 1000, 200))
}

func TestSplitText_SizeBound(t *testing.T) {
	text := strings.Repeat("word ", 3000)
	chunks := SplitText(text, 1000, 200)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), 1000)
	}
}

func TestSplitText_PrefersWhitespaceBoundary(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon ", 100)
	chunks := SplitText(text, 200, 40)
	require.Greater(t, len(chunks), 1)

	// Every non-final chunk of word-separated text should end at a space.
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Text, " "), "chunk %d should end on a word boundary", c.Index)
	}
}

func TestSplitText_FirstChunkHasNoOverlap(t *testing.T) {
	chunks := SplitText(strings.Repeat("a b c d e ", 500), 300, 60)
	require.NotEmpty(t, chunks)
	assert.Zero(t, chunks[0].Overlap)
	for _, c := range chunks[1:] {
		assert.Equal(t, 60, c.Overlap)
	}
}

func TestSplitText_InvalidOverlapClamped(t *testing.T) {
	text := strings.Repeat("word ", 500)
	chunks := SplitText(text, 100, 100) // overlap >= size must not loop forever
	require.NotEmpty(t, chunks)

	like := make([]chunkLike, len(chunks))
	for i, c := range chunks {
		like[i] = chunkLike{text: c.Text, overlap: c.Overlap}
	}
	assert.Equal(t, text, reconstruct(like))
}
