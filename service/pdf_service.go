package service

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docrag/docrag-be/types"
)

// PDFService handles PDF text extraction
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// ExtractPages turns raw PDF bytes into the ordered sequence of non-blank
// pages, 1-indexed. Unparseable input fails with an extraction error and is
// not retried: malformed documents are not transient.
func (s *PDFService) ExtractPages(pdfBytes []byte) ([]types.Page, error) {
	if len(pdfBytes) == 0 {
		return nil, fmt.Errorf("%w: empty document", types.ErrExtraction)
	}
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", types.ErrExtraction, err)
	}
	defer doc.Close()

	var pages []types.Page
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to extract page %d: %v", types.ErrExtraction, i+1, err)
		}
		text = s.cleanText(text)
		// Skip pages without text
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, types.Page{
			PageNumber: i + 1,
			Text:       text,
		})
	}

	return pages, nil
}

func (s *PDFService) cleanText(text string) string {
	replacements := map[string]string{
		"\x00":   "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\x1b":   "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return cleaned
}
