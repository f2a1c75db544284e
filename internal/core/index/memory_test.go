package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuvoice/docuvoice/internal/models"
)

// fakeEmbedder returns a fixed vector per known text and fails on demand.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
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

func TestBuild_NoChunks(t *testing.T) {
	emb := &fakeEmbedder{}
	_, err := Build(context.Background(), emb, nil)
	require.ErrorIs(t, err, ErrNoChunks)
	assert.Zero(t, emb.calls, "embedding provider must not be called with zero chunks")
}

func TestBuild_EmbedderFailure(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("auth failure")}
	_, err := Build(context.Background(), emb, []models.Chunk{{Text: "some text"}})
	assert.Error(t, err)
}

func TestSearch_NearestFirst(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"the sky is blue":  {1, 0, 0},
		"grass is green":   {0, 1, 0},
		"water is wet too": {0.7, 0.7, 0},
	}}
	chunks := []models.Chunk{
		{Index: 0, Text: "the sky is blue"},
		{Index: 1, Text: "grass is green"},
		{Index: 2, Text: "water is wet too"},
	}

	m, err := Build(context.Background(), emb, chunks)
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	hits := m.Search([]float32{1, 0, 0}, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "the sky is blue", hits[0].Chunk.Text)
	assert.Equal(t, "water is wet too", hits[1].Chunk.Text)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearch_TopKClamped(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	m, err := Build(context.Background(), emb, []models.Chunk{{Text: "only one"}})
	require.NoError(t, err)

	hits := m.Search([]float32{0, 0, 1}, 10)
	assert.Len(t, hits, 1)
}
