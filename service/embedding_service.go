package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/docrag/docrag-be/types"
)

// Embedder converts free text into a fixed-length vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// EmbeddingService produces embeddings through an OpenAI-compatible
// embeddings endpoint.
type EmbeddingService struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
	timeout   time.Duration
}

// NewEmbeddingService creates an embedding client. baseURL may point at a
// local inference server exposing the OpenAI embeddings API. Every call is
// bounded by timeout; the remote endpoint enforces no deadline of its own.
func NewEmbeddingService(baseURL, apiKey, model string, dimension int, timeout time.Duration) *EmbeddingService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &EmbeddingService{
		client:    client,
		model:     openai.EmbeddingModel(model),
		dimension: dimension,
		timeout:   timeout,
	}
}

// Embed encodes one text into its embedding vector. The returned vector must
// match the configured dimension; a mismatch means the deployed model does not
// fit the index schema.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      s.model,
		Dimensions: s.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", types.ErrEmbedding)
	}
	vector := resp.Data[0].Embedding
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: model returned %d dimensions, index expects %d",
			types.ErrEmbedding, len(vector), s.dimension)
	}
	return vector, nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (s *EmbeddingService) Dimension() int {
	return s.dimension
}
