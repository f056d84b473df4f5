package service

import (
	"fmt"
	"strings"

	"github.com/docrag/docrag-be/types"
)

// TextChunker splits page text into overlapping fixed-size character windows.
// It is a pure function of its input: the same text always produces the same
// chunks. Minimum-length filtering is applied downstream, not here.
type TextChunker struct {
	chunkSize int
	overlap   int
}

// NewTextChunker creates a chunker with the given window size and overlap.
// The step chunkSize-overlap must be at least 1 or the scan would never
// terminate, so overlap >= chunkSize is rejected up front.
func NewTextChunker(chunkSize, overlap int) (*TextChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", types.ErrConfiguration, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < chunk size, got overlap=%d chunk size=%d",
			types.ErrConfiguration, overlap, chunkSize)
	}
	return &TextChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// ChunkText splits text into windows of chunkSize characters whose start
// offsets advance by chunkSize-overlap. Sizes and offsets count characters,
// not bytes, so a window boundary never splits a multi-byte rune. Windows that
// are empty after trimming are dropped; the final window may be shorter than
// chunkSize.
func (c *TextChunker) ChunkText(text string) []types.Chunk {
	var chunks []types.Chunk
	runes := []rune(text)
	textLen := len(runes)
	step := c.chunkSize - c.overlap

	for start := 0; start < textLen; start += step {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}
		trimmed := strings.TrimSpace(string(runes[start:end]))
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, types.Chunk{
			Text:        trimmed,
			StartOffset: start,
		})
	}

	return chunks
}
