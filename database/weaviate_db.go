package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/docrag/docrag-be/config"
	"github.com/docrag/docrag-be/types"
)

// WeaviateStore is the search index backing the pipeline: chunk content plus
// its 384-float vector, HNSW-indexed with cosine distance, with BM25 over the
// content field for hybrid queries.
type WeaviateStore struct {
	client    *weaviate.Client
	className string
	dimension int
	timeout   time.Duration
}

func chunkClassObject(className string) *models.Class {
	return &models.Class{
		Class: className,
		Properties: []*models.Property{
			{Name: "chunk_id", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "source_file", DataType: []string{"text"}},
			{Name: "page_number", DataType: []string{"int"}},
		},
		// Vectors are computed by the pipeline, never by the index.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}
}

func NewWeaviateStore(cfg config.WeaviateConfig, dimension int, timeout time.Duration) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	return &WeaviateStore{
		client:    client,
		className: cfg.ClassName,
		dimension: dimension,
		timeout:   timeout,
	}, nil
}

// EnsureSchema creates the chunk class if it does not exist yet. An existing
// class is left untouched.
func (s *WeaviateStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}

	err = s.client.Schema().ClassCreator().WithClass(chunkClassObject(s.className)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create %s class: %w", s.className, err)
	}
	return nil
}

// Reinit drops and recreates the chunk class, discarding all indexed records.
func (s *WeaviateStore) Reinit(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete %s class: %w", s.className, err)
	}

	err = s.client.Schema().ClassCreator().WithClass(chunkClassObject(s.className)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create %s class: %w", s.className, err)
	}
	return nil
}

// UploadBatch submits one batch of records. Object UUIDs are derived from the
// record id, so re-indexing the same source overwrites instead of duplicating.
func (s *WeaviateStore) UploadBatch(ctx context.Context, records []types.IndexableRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	batcher := s.client.Batch().ObjectsBatcher()

	for _, rec := range records {
		if len(rec.Embedding) != s.dimension {
			return fmt.Errorf("%w: record %s has %d dimensions, index expects %d",
				types.ErrUploadBatch, rec.ID, len(rec.Embedding), s.dimension)
		}
		batcher = batcher.WithObjects(&models.Object{
			Class: s.className,
			ID:    strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(rec.ID)).String()),
			Properties: map[string]interface{}{
				"chunk_id":    rec.ID,
				"content":     rec.Content,
				"source_file": rec.SourceFile,
				"page_number": rec.PageNumber,
			},
			Vector: rec.Embedding,
		})
	}

	resp, err := batcher.Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUploadBatch, err)
	}

	// The batch endpoint reports success per object.
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("%w: object %s rejected: %s",
				types.ErrUploadBatch, obj.ID, obj.Result.Errors.Error[0].Message)
		}
	}

	return nil
}

// Search returns the topK most relevant chunks in the index's ranking order.
// With an empty keyword the query is pure vector similarity; otherwise the
// index combines vector similarity with BM25 keyword matching.
func (s *WeaviateStore) Search(ctx context.Context, vector []float32, topK int, keyword string) ([]types.RetrievedChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source_file"},
		{Name: "page_number"},
	}

	getBuilder := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithLimit(topK)

	if keyword != "" {
		getBuilder = getBuilder.WithHybrid((&graphql.HybridArgumentBuilder{}).
			WithQuery(keyword).
			WithVector(vector))
	} else {
		getBuilder = getBuilder.WithNearVector((&graphql.NearVectorArgumentBuilder{}).
			WithVector(vector))
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrieval, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrRetrieval, result.Errors[0].Message)
	}

	return parseRetrievedChunks(result.Data, s.className), nil
}

// classObjects digs the per-class object list out of a GraphQL response.
// Degenerate responses (missing section or class key) yield nil instead of
// panicking.
func classObjects(data map[string]models.JSONObject, section, className string) []interface{} {
	root, ok := data[section].(map[string]interface{})
	if !ok {
		return nil
	}
	objects, _ := root[className].([]interface{})
	return objects
}

func parseRetrievedChunks(data map[string]models.JSONObject, className string) []types.RetrievedChunk {
	var chunks []types.RetrievedChunk
	for _, item := range classObjects(data, "Get", className) {
		doc, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := types.RetrievedChunk{}
		if v, ok := doc["content"].(string); ok {
			chunk.Content = v
		}
		if v, ok := doc["source_file"].(string); ok {
			chunk.SourceFile = v
		}
		if v, ok := doc["page_number"].(float64); ok {
			chunk.PageNumber = int(v)
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func parseAggregateCount(data map[string]models.JSONObject, className string) (int64, bool) {
	objects := classObjects(data, "Aggregate", className)
	if len(objects) == 0 {
		return 0, false
	}
	entry, ok := objects[0].(map[string]interface{})
	if !ok {
		return 0, false
	}
	meta, ok := entry["meta"].(map[string]interface{})
	if !ok {
		return 0, false
	}
	count, ok := meta["count"].(float64)
	if !ok {
		return 0, false
	}
	return int64(count), true
}

func parseSourceFiles(data map[string]models.JSONObject, className string) []string {
	seen := make(map[string]struct{})
	for _, item := range classObjects(data, "Get", className) {
		if doc, ok := item.(map[string]interface{}); ok {
			if v, ok := doc["source_file"].(string); ok {
				seen[v] = struct{}{}
			}
		}
	}
	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Count returns the number of indexed records.
func (s *WeaviateStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.GraphQL().Aggregate().
		WithClassName(s.className).
		WithFields(graphql.Field{
			Name:   "meta",
			Fields: []graphql.Field{{Name: "count"}},
		}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("failed to count documents: %s", result.Errors[0].Message)
	}

	count, ok := parseAggregateCount(result.Data, s.className)
	if !ok {
		return 0, fmt.Errorf("unable to parse count response")
	}
	return count, nil
}

// ListSources returns the distinct source files present in the index, scanning
// at most limit records.
func (s *WeaviateStore) ListSources(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(graphql.Field{Name: "source_file"}).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("failed to list sources: %s", result.Errors[0].Message)
	}

	return parseSourceFiles(result.Data, s.className), nil
}
