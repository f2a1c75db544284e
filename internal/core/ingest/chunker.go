package ingest

import (
	"unicode"

	"github.com/docuvoice/docuvoice/internal/models"
)

// Default chunking geometry, matching the retrieval window the answering
// engine is tuned for.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// SplitText cuts text into overlapping chunks of at most size runes, with
// overlap runes carried over from the tail of each chunk into the next.
// Boundaries prefer whitespace so words are not cut mid-way when the text
// allows it. The split is deterministic, covers the input with no gaps, and
// each chunk records its actual overlap with its predecessor: stripping that
// prefix from every chunk and concatenating reconstructs the input exactly.
//
// Empty input yields a nil slice.
func SplitText(text string, size, overlap int) []models.Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []models.Chunk
	start, prevEnd := 0, 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else if b := lastBoundary(runes, start+overlap+1, end); b > 0 {
			end = b
		}

		ov := 0
		if len(chunks) > 0 {
			ov = prevEnd - start
		}
		chunks = append(chunks, models.Chunk{
			Index:   len(chunks),
			Text:    string(runes[start:end]),
			Overlap: ov,
		})

		if end == len(runes) {
			break
		}
		prevEnd = end
		start = end - overlap
	}
	return chunks
}

// lastBoundary returns the largest cut position b in (lo, hi] such that the
// rune before b is whitespace, or -1 when the window holds no whitespace and a
// hard cut at hi is the only option. Keeping b above lo guarantees the next
// chunk starts past the previous chunk's start, so the walk always progresses.
func lastBoundary(runes []rune, lo, hi int) int {
	if lo < 1 {
		lo = 1
	}
	for b := hi; b > lo; b-- {
		if unicode.IsSpace(runes[b-1]) {
			return b
		}
	}
	return -1
}
