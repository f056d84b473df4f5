package database

import (
	"context"

	"github.com/docrag/docrag-be/types"
)

// VectorIndex defines the remote search index capability consumed by the
// indexing and query paths.
type VectorIndex interface {
	// Schema operations
	EnsureSchema(ctx context.Context) error
	Reinit(ctx context.Context) error

	// Indexing operations
	UploadBatch(ctx context.Context, records []types.IndexableRecord) error

	// Search operations. An empty keyword selects pure vector search; a
	// non-empty keyword selects hybrid vector+keyword ranking.
	Search(ctx context.Context, vector []float32, topK int, keyword string) ([]types.RetrievedChunk, error)

	// Stats operations
	Count(ctx context.Context) (int64, error)
	ListSources(ctx context.Context, limit int) ([]string, error)
}

// BlobStore defines the document blob storage capability. Containers hold the
// raw PDF files awaiting indexing.
type BlobStore interface {
	List(ctx context.Context, container string) ([]types.BlobInfo, error)
	Download(ctx context.Context, container, name string) ([]byte, error)
	Upload(ctx context.Context, container, name string, data []byte, overwrite bool) error
	Delete(ctx context.Context, container, name string) error
}
