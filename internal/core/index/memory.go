package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/docuvoice/docuvoice/internal/core"
	"github.com/docuvoice/docuvoice/internal/models"
)

// ErrNoChunks is returned when an index build is attempted on an empty chunk
// set (an empty or unreadable document).
var ErrNoChunks = errors.New("no text chunks to index: the document has no extractable text")

// Memory is a session-owned, brute-force cosine similarity index. It is built
// once per processed document and replaced wholesale on re-process; it is
// never mutated after Build returns.
type Memory struct {
	chunks  []models.Chunk
	vectors [][]float32
}

// Build embeds all chunks in one batch and returns the populated index.
// An embedding provider failure is fatal to the build and surfaced as-is.
func Build(ctx context.Context, embedder core.EmbeddingProvider, chunks []models.Chunk) (*Memory, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vecs, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(chunks))
	}

	m := &Memory{
		chunks:  append([]models.Chunk(nil), chunks...),
		vectors: make([][]float32, len(vecs)),
	}
	for i, v := range vecs {
		m.vectors[i] = normalize(v)
	}
	return m, nil
}

// Search returns the topK nearest chunks to the query vector, highest
// similarity first. Ties keep document order.
func (m *Memory) Search(query []float32, topK int) []models.ScoredChunk {
	if topK <= 0 {
		topK = 4
	}
	q := normalize(query)

	results := make([]models.ScoredChunk, len(m.chunks))
	for i := range m.vectors {
		results[i] = models.ScoredChunk{Chunk: m.chunks[i], Score: dot(m.vectors[i], q)}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// Len reports the number of indexed chunks.
func (m *Memory) Len() int { return len(m.chunks) }

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
