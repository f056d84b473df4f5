package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/docrag/docrag-be/types"
)

// PageExtractor turns raw document bytes into ordered non-blank pages.
type PageExtractor interface {
	ExtractPages(pdfBytes []byte) ([]types.Page, error)
}

// DocumentBuilder orchestrates extraction, chunking, id assignment and
// embedding to produce the indexable records for one source document.
type DocumentBuilder struct {
	extractor        PageExtractor
	chunker          *TextChunker
	embedder         Embedder
	minContentLength int
	logger           *zap.SugaredLogger
}

func NewDocumentBuilder(
	extractor PageExtractor,
	chunker *TextChunker,
	embedder Embedder,
	minContentLength int,
	logger *zap.SugaredLogger,
) *DocumentBuilder {
	return &DocumentBuilder{
		extractor:        extractor,
		chunker:          chunker,
		embedder:         embedder,
		minContentLength: minContentLength,
		logger:           logger,
	}
}

// Build produces the records for one source document. Chunks shorter than the
// minimum content length after trimming are skipped. Ids are assigned from a
// per-page sequence counter before the embedding call, so assignment never
// depends on call completion order. An extraction failure aborts only this
// source; the caller decides whether to continue with others.
func (b *DocumentBuilder) Build(ctx context.Context, sourceName string, pdfBytes []byte) ([]types.IndexableRecord, error) {
	pages, err := b.extractor.ExtractPages(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", sourceName, err)
	}
	b.logger.Infow("extracted pages", "source", sourceName, "pages", len(pages))

	sanitized := SanitizeFileName(sourceName)

	var records []types.IndexableRecord
	for _, page := range pages {
		chunks := b.chunker.ChunkText(page.Text)

		seq := 0
		for _, chunk := range chunks {
			if utf8.RuneCountInString(chunk.Text) < b.minContentLength {
				continue
			}

			id := AssignID(sanitized, page.PageNumber, seq)
			seq++

			embedding, err := b.embedder.Embed(ctx, chunk.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk %s: %w", id, err)
			}

			records = append(records, types.IndexableRecord{
				ID:         id,
				Content:    chunk.Text,
				SourceFile: sourceName,
				PageNumber: page.PageNumber,
				Embedding:  embedding,
			})
		}
		b.logger.Debugw("chunked page", "source", sourceName, "page", page.PageNumber, "chunks", seq)
	}

	b.logger.Infow("built indexable records", "source", sourceName, "records", len(records))
	return records, nil
}
