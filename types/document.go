package types

// Page is the text of a single PDF page. Pages whose extracted text is empty
// after trimming are never emitted.
type Page struct {
	PageNumber int    // 1-indexed page number
	Text       string // Extracted page text
}

// Chunk is a bounded, possibly-overlapping window of a page's text. It is the
// unit of embedding and retrieval.
type Chunk struct {
	Text        string // Trimmed chunk content
	StartOffset int    // Offset of the window within the page text
}

// IndexableRecord is one chunk prepared for upload to the search index.
// Records are immutable once built; re-indexing the same source overwrites by ID.
type IndexableRecord struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	SourceFile string    `json:"source_file"`
	PageNumber int       `json:"page_number"`
	Embedding  []float32 `json:"content_vector"`
}

// RetrievedChunk is a search hit projected back from the index. Ranking order
// carries the relevance; no score is reproduced locally.
type RetrievedChunk struct {
	Content    string `json:"content"`
	SourceFile string `json:"source_file"`
	PageNumber int    `json:"page_number"`
}

// QueryResult is the grounded answer for one question.
type QueryResult struct {
	Answer    string           `json:"answer"`
	Sources   []string         `json:"sources"`
	NumChunks int              `json:"num_chunks"`
	Chunks    []RetrievedChunk `json:"chunks,omitempty"`
}

// UploadReport summarizes one batched upload run. A failed batch does not
// abort the remaining batches, so callers inspect partial success here instead
// of relying on logs.
type UploadReport struct {
	UploadedCount int
	TotalRecords  int
	TotalBatches  int
	FailedBatches int
	Errors        []error
}

// BlobInfo describes one stored document blob.
type BlobInfo struct {
	Name string
	Size int64
}

// ChunkingConfig contains configuration options for document processing.
type ChunkingConfig struct {
	ChunkSize        int // Maximum size for text chunks in characters
	Overlap          int // Size of overlap between consecutive chunks
	MinContentLength int // Chunks shorter than this after trimming are skipped
}
